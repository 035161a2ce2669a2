package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashgraph-online/asset-publisher-go/pkg/assets"
	"github.com/hashgraph-online/asset-publisher-go/pkg/descriptor"
	"github.com/hashgraph-online/asset-publisher-go/pkg/pinning"
)

type pinCall struct {
	data []byte
	name string
}

type fakePinner struct {
	calls  []pinCall
	failOn int
	err    error
}

func (p *fakePinner) Pin(_ context.Context, data []byte, name string) (pinning.Locator, error) {
	p.calls = append(p.calls, pinCall{data: append([]byte(nil), data...), name: name})
	if p.failOn > 0 && len(p.calls) == p.failOn {
		return "", p.err
	}
	contentID, err := pinning.ComputeCID(data)
	if err != nil {
		return "", err
	}
	return pinning.LocatorFor(contentID), nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newAssembler(t *testing.T, pinner Pinner) *Assembler {
	t.Helper()
	assembler, err := NewAssembler(pinner)
	if err != nil {
		t.Fatalf("NewAssembler failed: %v", err)
	}
	return assembler
}

func TestAssemblePinsAssetThenDescriptor(t *testing.T) {
	dir := t.TempDir()
	descriptorPath := writeFile(t, dir, "1.json", `{"name":"One","description":"first"}`)
	writeFile(t, dir, "1.png", "png-bytes")
	pinner := &fakePinner{}

	publication, err := newAssembler(t, pinner).Assemble(context.Background(), Request{DescriptorPath: descriptorPath})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(pinner.calls) != 2 {
		t.Fatalf("expected two pins, got %d", len(pinner.calls))
	}
	if string(pinner.calls[0].data) != "png-bytes" || pinner.calls[0].name != "1.png" {
		t.Fatalf("unexpected asset pin: %+v", pinner.calls[0])
	}
	if !publication.AssetPinned {
		t.Fatal("expected asset to be pinned")
	}

	var document map[string]any
	if err := json.Unmarshal(pinner.calls[1].data, &document); err != nil {
		t.Fatalf("pinned descriptor is not JSON: %v", err)
	}
	if document["image"] != publication.ImageLocator.String() {
		t.Fatalf("expected image %s in document, got %v", publication.ImageLocator, document["image"])
	}
	if document["name"] != "One" || document["description"] != "first" {
		t.Fatalf("expected passthrough fields, got %v", document)
	}

	expectedCID, _ := pinning.ComputeCID(pinner.calls[1].data)
	if publication.MetadataLocator != pinning.LocatorFor(expectedCID) {
		t.Fatalf("unexpected metadata locator: %s", publication.MetadataLocator)
	}
	if publication.DocumentCID != expectedCID.String() {
		t.Fatalf("unexpected document CID: %s", publication.DocumentCID)
	}
}

func TestAssembleSkipsAssetWhenImagePresent(t *testing.T) {
	dir := t.TempDir()
	descriptorPath := writeFile(t, dir, "2.json", `{"name":"Two","image":"ipfs://bafkreialready"}`)
	writeFile(t, dir, "2.png", "unused")
	pinner := &fakePinner{}

	publication, err := newAssembler(t, pinner).Assemble(context.Background(), Request{DescriptorPath: descriptorPath})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(pinner.calls) != 1 {
		t.Fatalf("expected only the descriptor pin, got %d pins", len(pinner.calls))
	}
	if publication.AssetPinned || publication.ImageLocator != "ipfs://bafkreialready" {
		t.Fatalf("unexpected publication: %+v", publication)
	}
}

func TestAssembleAmbiguousInputPinsNothing(t *testing.T) {
	dir := t.TempDir()
	asset := writeFile(t, dir, "lonely.png", "png")
	pinner := &fakePinner{}

	_, err := newAssembler(t, pinner).Assemble(context.Background(), Request{AssetPath: asset})

	var phaseErr *PhaseError
	if !errors.As(err, &phaseErr) || phaseErr.Phase != PhaseLinking {
		t.Fatalf("expected linking PhaseError, got %v", err)
	}
	var inputErr *assets.InputError
	if !errors.As(err, &inputErr) || inputErr.Code != assets.AmbiguousInput {
		t.Fatalf("expected AmbiguousInput, got %v", err)
	}
	if len(pinner.calls) != 0 {
		t.Fatalf("expected no pins, got %d", len(pinner.calls))
	}
}

func TestAssembleAssetNotFound(t *testing.T) {
	dir := t.TempDir()
	descriptorPath := writeFile(t, dir, "3.json", `{"name":"Three"}`)
	pinner := &fakePinner{}

	_, err := newAssembler(t, pinner).Assemble(context.Background(), Request{DescriptorPath: descriptorPath})

	var inputErr *assets.InputError
	if !errors.As(err, &inputErr) || inputErr.Code != assets.AssetNotFound {
		t.Fatalf("expected AssetNotFound, got %v", err)
	}
	if len(pinner.calls) != 0 {
		t.Fatalf("expected no pins, got %d", len(pinner.calls))
	}
}

func TestAssemblePinningFailureReportsPhase(t *testing.T) {
	dir := t.TempDir()
	descriptorPath := writeFile(t, dir, "4.json", `{"name":"Four"}`)
	writeFile(t, dir, "4.jpg", "jpg")
	providerErr := &pinning.ProviderError{Provider: pinning.StrategyPublic, Status: 500}

	for failOn := 1; failOn <= 2; failOn++ {
		pinner := &fakePinner{failOn: failOn, err: providerErr}
		_, err := newAssembler(t, pinner).Assemble(context.Background(), Request{DescriptorPath: descriptorPath})

		var phaseErr *PhaseError
		if !errors.As(err, &phaseErr) || phaseErr.Phase != PhasePinning {
			t.Fatalf("failOn=%d: expected pinning PhaseError, got %v", failOn, err)
		}
		if !errors.Is(err, providerErr) {
			t.Fatalf("failOn=%d: expected wrapped provider error", failOn)
		}
		if len(pinner.calls) != failOn {
			t.Fatalf("failOn=%d: expected %d pin calls, got %d", failOn, failOn, len(pinner.calls))
		}
	}
}

func TestAssembleDoesNotMutateCallerDescriptor(t *testing.T) {
	dir := t.TempDir()
	descriptorPath := writeFile(t, dir, "5.json", `{}`)
	writeFile(t, dir, "art.png", "art")
	original := &descriptor.Descriptor{AssetRef: "art.png", Fields: map[string]any{"name": "Five"}}
	pinner := &fakePinner{}

	publication, err := newAssembler(t, pinner).Assemble(context.Background(), Request{
		DescriptorPath: descriptorPath,
		Descriptor:     original,
	})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if original.Image != "" || original.AssetRef != "art.png" {
		t.Fatalf("caller descriptor mutated: %+v", original)
	}
	if publication.Descriptor.Image == "" {
		t.Fatal("expected working descriptor to carry image")
	}
	if publication.AssetPath != filepath.Join(dir, "art.png") {
		t.Fatalf("unexpected asset path: %s", publication.AssetPath)
	}
}

func TestAssembleLoadedDescriptorWithExplicitAsset(t *testing.T) {
	dir := t.TempDir()
	asset := writeFile(t, dir, "art.png", "art-bytes")
	pinner := &fakePinner{}

	publication, err := newAssembler(t, pinner).Assemble(context.Background(), Request{
		Descriptor: &descriptor.Descriptor{Fields: map[string]any{"name": "x"}},
		AssetPath:  asset,
	})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(pinner.calls) != 2 || string(pinner.calls[0].data) != "art-bytes" {
		t.Fatalf("expected asset and descriptor pins, got %+v", pinner.calls)
	}
	if pinner.calls[1].name != "metadata.json" {
		t.Fatalf("unexpected document name: %s", pinner.calls[1].name)
	}
	if publication.AssetPath != asset || !publication.AssetPinned {
		t.Fatalf("unexpected publication: %+v", publication)
	}
}

func TestAssembleLoadedDescriptorReferenceInAssetDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "art.png", "art-bytes")
	pinner := &fakePinner{}

	publication, err := newAssembler(t, pinner).Assemble(context.Background(), Request{
		Descriptor: &descriptor.Descriptor{AssetRef: "art.png"},
		AssetDir:   dir,
	})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if publication.AssetPath != filepath.Join(dir, "art.png") {
		t.Fatalf("unexpected asset path: %s", publication.AssetPath)
	}
	if !publication.Descriptor.HasImage() {
		t.Fatal("expected working descriptor to carry image")
	}
}

func TestAssemblePreservesLargeIntegers(t *testing.T) {
	dir := t.TempDir()
	descriptorPath := writeFile(t, dir, "6.json", `{"id":9007199254740993,"edition":12345678901234567890,"image":"ipfs://bafkreialready"}`)
	pinner := &fakePinner{}

	if _, err := newAssembler(t, pinner).Assemble(context.Background(), Request{DescriptorPath: descriptorPath}); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	document := string(pinner.calls[0].data)
	for _, expected := range []string{`"id":9007199254740993`, `"edition":12345678901234567890`} {
		if !strings.Contains(document, expected) {
			t.Fatalf("expected %s in pinned document, got %s", expected, document)
		}
	}
}

func TestNewAssemblerRequiresPinner(t *testing.T) {
	if _, err := NewAssembler(nil); err == nil {
		t.Fatal("expected error for nil pinner")
	}
	err := &PhaseError{Phase: PhasePinning, Err: fmt.Errorf("boom")}
	if err.Error() != "pinning failed: boom" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
