// Package archive copies a workspace's snapshots and ledger to S3-compatible
// object storage, namespaced by workspace inside a shared bucket.
package archive
