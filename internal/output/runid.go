package output

import (
	"crypto/sha256"

	"github.com/google/uuid"
)

// runNamespace scopes run ids; it is itself a name-based UUID.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://pfmi3dsc/run"))

// RunID derives a name-based (v5) UUID from the run inputs, so identical
// inputs always carry the same id.
func RunID(inputs ...[]byte) string {
	h := sha256.New()
	for _, in := range inputs {
		var n [8]byte
		l := uint64(len(in))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write(in)
	}
	return uuid.NewSHA1(runNamespace, h.Sum(nil)).String()
}
