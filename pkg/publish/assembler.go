package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashgraph-online/asset-publisher-go/pkg/assets"
	"github.com/hashgraph-online/asset-publisher-go/pkg/descriptor"
	"github.com/hashgraph-online/asset-publisher-go/pkg/pinning"
)

// Pinner uploads content and returns its locator.
type Pinner interface {
	Pin(ctx context.Context, data []byte, name string) (pinning.Locator, error)
}

// Request names the descriptor to publish. Descriptor may be supplied
// pre-loaded; otherwise it is read from DescriptorPath. The path is also
// what the asset is matched by when neither AssetPath nor a local image
// reference is given.
type Request struct {
	DescriptorPath string
	Descriptor     *descriptor.Descriptor
	AssetPath      string
	AssetDir       string
}

type Publication struct {
	MetadataLocator pinning.Locator
	ImageLocator    pinning.Locator
	AssetPath       string
	// AssetPinned is false when the descriptor already referenced published
	// content.
	AssetPinned bool
	Descriptor  *descriptor.Descriptor
	Document    []byte
	// DocumentCID is computed locally from Document.
	DocumentCID string
}

type Assembler struct {
	pinner Pinner
}

func NewAssembler(pinner Pinner) (*Assembler, error) {
	if pinner == nil {
		return nil, fmt.Errorf("pinner is required")
	}
	return &Assembler{pinner: pinner}, nil
}

// Assemble pins the asset (when needed) and the metadata document. The
// caller's descriptor is never modified.
func (a *Assembler) Assemble(ctx context.Context, request Request) (Publication, error) {
	descriptorPath := strings.TrimSpace(request.DescriptorPath)
	if descriptorPath == "" && request.Descriptor == nil {
		_, err := assets.Resolve(assets.LinkRequest{AssetPath: request.AssetPath})
		return Publication{}, &PhaseError{Phase: PhaseLinking, Err: err}
	}

	var working *descriptor.Descriptor
	if request.Descriptor != nil {
		working = request.Descriptor.Clone()
	} else {
		loaded, err := descriptor.Load(descriptorPath)
		if err != nil {
			return Publication{}, &PhaseError{Phase: PhaseLinking, Err: err}
		}
		working = loaded
	}
	if working.Fields == nil {
		working.Fields = map[string]any{}
	}

	publication := Publication{Descriptor: working}
	if working.HasImage() {
		publication.ImageLocator = pinning.Locator(working.Image)
	} else {
		assetPath, err := assets.Resolve(assets.LinkRequest{
			DescriptorPath: descriptorPath,
			Descriptor:     working,
			AssetPath:      request.AssetPath,
			AssetDir:       request.AssetDir,
		})
		if err != nil {
			return Publication{}, &PhaseError{Phase: PhaseLinking, Err: err}
		}
		content, err := os.ReadFile(assetPath)
		if err != nil {
			return Publication{}, &PhaseError{Phase: PhaseLinking, Err: fmt.Errorf("failed to read asset %s: %w", assetPath, err)}
		}
		imageLocator, err := a.pinner.Pin(ctx, content, filepath.Base(assetPath))
		if err != nil {
			return Publication{}, &PhaseError{Phase: PhasePinning, Err: err}
		}
		working.SetImage(imageLocator.String())
		publication.AssetPath = assetPath
		publication.ImageLocator = imageLocator
		publication.AssetPinned = true
	}

	document, err := json.Marshal(working)
	if err != nil {
		return Publication{}, &PhaseError{Phase: PhasePinning, Err: fmt.Errorf("failed to encode descriptor: %w", err)}
	}
	if contentID, err := pinning.ComputeCID(document); err == nil {
		publication.DocumentCID = contentID.String()
	}

	metadataLocator, err := a.pinner.Pin(ctx, document, documentName(descriptorPath))
	if err != nil {
		return Publication{}, &PhaseError{Phase: PhasePinning, Err: err}
	}
	publication.Document = document
	publication.MetadataLocator = metadataLocator
	return publication, nil
}

func documentName(descriptorPath string) string {
	if descriptorPath == "" {
		return "metadata.json"
	}
	return descriptor.Stem(descriptorPath) + ".json"
}
