package util

import (
	"fmt"
	"strings"
)

// DocumentID extracts the document ID from a Firestore document path or
// CloudEvent subject, e.g. "documents/vehicles/abc" or
// "projects/p/databases/(default)/documents/vehicles/abc". The document must
// sit directly under collection.
func DocumentID(path, collection string) (string, error) {
	path = strings.Trim(path, "/")
	if i := strings.LastIndex(path, "documents/"); i >= 0 {
		path = path[i+len("documents/"):]
	}

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] != collection || parts[1] == "" {
		return "", fmt.Errorf("path %q is not a %s document", path, collection)
	}
	return parts[1], nil
}
