package convert

import (
	"strings"

	"github.com/google/uuid"
)

// namespace scopes the name-derived ids this tool generates.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/see-platform/seesync"))

// hexID renders a UUID the way OpenAlea factory uids are written.
func hexID(u uuid.UUID) string {
	return strings.ReplaceAll(u.String(), "-", "")
}

// InterfaceID returns uid when set, otherwise an id derived from the
// interface name so reruns produce the same record.
func InterfaceID(uid, name string) string {
	if uid != "" {
		return uid
	}
	return hexID(uuid.NewSHA1(namespace, []byte("interface:"+name)))
}

// FactoryID returns uid when set, otherwise an id derived from the package
// and factory names.
func FactoryID(uid, pkg, name string) string {
	if uid != "" {
		return uid
	}
	return hexID(uuid.NewSHA1(namespace, []byte("factory:"+pkg+":"+name)))
}

// NewUID returns a fresh time-based uid, as written into manifests.
func NewUID() (string, error) {
	u, err := uuid.NewUUID()
	if err != nil {
		return "", err
	}
	return hexID(u), nil
}

// CompositeNodeID returns the id of the node form of a composite. It differs
// from the composite's own id, which the workflow record keeps.
func CompositeNodeID(uid, pkg, name string) string {
	return hexID(uuid.NewSHA1(namespace, []byte("composite-node:"+FactoryID(uid, pkg, name))))
}
