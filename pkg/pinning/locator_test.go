package pinning

import (
	"testing"

	"github.com/ipfs/go-cid"
)

func TestComputeCIDIsDeterministic(t *testing.T) {
	first, err := ComputeCID([]byte("content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := ComputeCID([]byte("content"))
	other, _ := ComputeCID([]byte("other"))

	if !first.Equals(second) {
		t.Fatal("expected identical CIDs for identical content")
	}
	if first.Equals(other) {
		t.Fatal("expected different CIDs for different content")
	}
	if first.Prefix().Codec != cid.Raw || first.Version() != 1 {
		t.Fatalf("unexpected CID prefix: %+v", first.Prefix())
	}
}

func TestNormalizeLocator(t *testing.T) {
	contentID, _ := ComputeCID([]byte("x"))
	expected := LocatorFor(contentID)

	for _, input := range []string{
		contentID.String(),
		"  " + contentID.String() + "\n",
		"ipfs://" + contentID.String(),
		"/ipfs/" + contentID.String(),
	} {
		locator, err := NormalizeLocator(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if locator != expected {
			t.Fatalf("expected %s, got %s", expected, locator)
		}
	}

	v0 := "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	locator, err := NormalizeLocator(v0)
	if err != nil {
		t.Fatalf("unexpected error for CIDv0: %v", err)
	}
	if locator != Locator("ipfs://"+v0) {
		t.Fatalf("unexpected CIDv0 locator: %s", locator)
	}

	for _, input := range []string{"", "   ", "hello world", "ipfs://"} {
		if _, err := NormalizeLocator(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestLocatorCID(t *testing.T) {
	contentID, _ := ComputeCID([]byte("y"))
	parsed, err := LocatorFor(contentID).CID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equals(contentID) {
		t.Fatal("expected round-tripped CID")
	}
}
