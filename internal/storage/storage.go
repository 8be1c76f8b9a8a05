package storage

import (
	"path"
	"strings"
)

// Suffix appended to every object key written by the S3 backend.
const objectSuffix = ".json"

// ObjectKey maps a store key onto an object key under prefix. It is also
// used to address the remote catalog object.
func ObjectKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key + objectSuffix
	}
	return path.Join(prefix, key+objectSuffix)
}
