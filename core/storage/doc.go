// Package storage provides the S3-compatible object storage client used by
// the archive feature to push workspace snapshots and ledgers off-machine.
//
// The Client interface is intentionally narrow (bucket check, bucket create,
// object upload) so it can be mocked in tests; see the mocks subpackage.
package storage
