// Package awsobjectlock collects S3 Object Lock data for the
// S3_OBJECT_LOCK_ENABLED rule. Bucket names come from the AWS Config
// advanced query API; each bucket's default retention comes from
// S3 GetObjectLockConfiguration. The package never decides compliance;
// that is the rule's job.
package awsobjectlock
