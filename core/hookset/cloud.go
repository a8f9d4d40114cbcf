package hookset

import (
	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
	"github.com/scaife-viewer/ctsresolver/core/index"
	"github.com/scaife-viewer/ctsresolver/core/resolver"
)

// CloudPath is the dotted path of the cloud-deployment hookset variant.
// It resolves exactly like the default hookset but always emits the cloud
// index-metadata fields.
const CloudPath = "ctsresolver.hooks.CloudHookset"

func init() {
	Register(CloudPath, func(deps Deps) (resolver.Hookset, error) {
		if deps.Corpus == nil {
			return nil, apperrors.NewParse("deps", "", "cloud hookset requires a corpus")
		}
		return &DefaultHookset{
			corpus:  deps.Corpus,
			builder: index.Builder{CloudIndexer: true},
		}, nil
	})
}
