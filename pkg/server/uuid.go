package server

import "github.com/google/uuid"

// OfflineUUID derives a stable player identity for a login that supplied no
// UUID of its own: an MD5-based (v3) UUID over "OfflinePlayer:<username>" in
// the OID namespace, matching the offline-mode identity scheme clients and
// servers agree on when online-mode authentication is skipped.
func OfflineUUID(username string) [16]byte {
	id := uuid.NewMD5(uuid.NameSpaceOID, []byte("OfflinePlayer:"+username))
	var out [16]byte
	copy(out[:], id[:])
	return out
}
