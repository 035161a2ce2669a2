package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashgraph-online/asset-publisher-go/pkg/descriptor"
)

// ImageExtensions are probed in order when no explicit asset is given.
var ImageExtensions = []string{"jpg", "jpeg", "png"}

// LinkRequest describes where to look for the asset of a descriptor. The
// descriptor is present when either Descriptor or DescriptorPath is set;
// the path is only needed for the stem lookup. AssetDir defaults to the
// descriptor file's directory.
type LinkRequest struct {
	DescriptorPath string
	Descriptor     *descriptor.Descriptor
	AssetPath      string
	AssetDir       string
}

// Resolve returns the path of the asset to publish. An explicit AssetPath
// wins; otherwise the descriptor's local reference is used, then
// <stem>.{jpg,jpeg,png} in the asset directory.
func Resolve(request LinkRequest) (string, error) {
	descriptorPath := strings.TrimSpace(request.DescriptorPath)
	assetPath := strings.TrimSpace(request.AssetPath)

	if descriptorPath == "" && request.Descriptor == nil {
		if assetPath != "" {
			return "", &InputError{
				Code:    AmbiguousInput,
				Path:    assetPath,
				Message: "a descriptor must be provided when an asset is given",
			}
		}
		return "", &InputError{Code: AssetNotFound, Message: "no descriptor provided"}
	}

	if assetPath != "" {
		if !isRegularFile(assetPath) {
			return "", &InputError{Code: AssetNotFound, Path: assetPath, Message: "asset file does not exist"}
		}
		return assetPath, nil
	}

	assetDir := strings.TrimSpace(request.AssetDir)
	if assetDir == "" && descriptorPath != "" {
		assetDir = filepath.Dir(descriptorPath)
	}

	if request.Descriptor != nil && strings.TrimSpace(request.Descriptor.AssetRef) != "" {
		candidate := strings.TrimSpace(request.Descriptor.AssetRef)
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(assetDir, candidate)
		}
		if !isRegularFile(candidate) {
			return "", &InputError{Code: AssetNotFound, Path: candidate, Message: "descriptor image does not exist"}
		}
		return candidate, nil
	}

	if descriptorPath == "" {
		return "", &InputError{Code: AssetNotFound, Message: "descriptor has no image and no file name to match one by"}
	}

	stem := descriptor.Stem(descriptorPath)
	for _, extension := range ImageExtensions {
		candidate := filepath.Join(assetDir, stem+"."+extension)
		if isRegularFile(candidate) {
			return candidate, nil
		}
	}

	return "", &InputError{
		Code:    AssetNotFound,
		Path:    filepath.Join(assetDir, stem+".{"+strings.Join(ImageExtensions, ",")+"}"),
		Message: "no image found for descriptor",
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
