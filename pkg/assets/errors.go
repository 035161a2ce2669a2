package assets

import "fmt"

type InputErrorCode string

const (
	AssetNotFound  InputErrorCode = "asset_not_found"
	AmbiguousInput InputErrorCode = "ambiguous_input"
)

// InputError reports a request that cannot be linked to an asset.
type InputError struct {
	Code    InputErrorCode
	Path    string
	Message string
}

func (e *InputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
