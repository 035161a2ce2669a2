package pinning

import (
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

const LocatorScheme = "ipfs://"

// Locator is an ipfs://<cid> content address.
type Locator string

func (l Locator) String() string {
	return string(l)
}

// CID parses the content identifier of the locator.
func (l Locator) CID() (cid.Cid, error) {
	return cid.Decode(strings.TrimPrefix(string(l), LocatorScheme))
}

// NormalizeLocator validates a provider hash (bare, /ipfs/ prefixed or
// ipfs:// prefixed) and returns its locator form.
func NormalizeLocator(hash string) (Locator, error) {
	trimmed := strings.TrimSpace(hash)
	trimmed = strings.TrimPrefix(trimmed, LocatorScheme)
	trimmed = strings.TrimPrefix(trimmed, "/ipfs/")
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return "", fmt.Errorf("content hash is empty")
	}
	if _, err := cid.Decode(trimmed); err != nil {
		return "", fmt.Errorf("invalid content hash %q: %w", trimmed, err)
	}
	return Locator(LocatorScheme + trimmed), nil
}

// ComputeCID derives the CIDv1 (raw codec, sha2-256) of data without
// uploading it.
func ComputeCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

func LocatorFor(contentID cid.Cid) Locator {
	return Locator(LocatorScheme + contentID.String())
}
