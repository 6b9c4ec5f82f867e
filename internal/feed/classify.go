package feed

import (
	"sort"
	"strings"
)

// Role is the semantic bucket an asset falls into.
type Role int

const (
	RoleUnclassified Role = iota
	RolePrimaryArchive
	RoleSplitPart
	RoleTexturePack
)

func (r Role) String() string {
	switch r {
	case RolePrimaryArchive:
		return "primary archive"
	case RoleSplitPart:
		return "split part"
	case RoleTexturePack:
		return "texture pack"
	default:
		return "unclassified"
	}
}

// AssetSet is the classified view of a release's asset list.
type AssetSet struct {
	Primary *Asset
	// Parts is sorted ascending by name; part names follow the
	// convention that lexical order equals extraction sequence order
	// (pack.zip.001, pack.zip.002, ...).
	Parts       []Asset
	TexturePack *Asset
}

// Installable reports whether the set contains anything the main
// install flow can act on. An empty set is a data error the caller
// must report, not silently ignore.
func (s AssetSet) Installable() bool {
	return s.Primary != nil || len(s.Parts) > 0
}

// InstallSize is the total byte size of the assets the main install
// flow will download.
func (s AssetSet) InstallSize() int64 {
	if s.Primary != nil {
		return s.Primary.Size
	}
	return TotalSize(s.Parts)
}

// ClassifyAsset assigns a single asset its role from name-pattern rules.
func ClassifyAsset(a Asset) Role {
	switch {
	case strings.HasSuffix(a.Name, ".AppImage.zip"):
		return RolePrimaryArchive
	case isTexturePackName(a.Name):
		return RoleTexturePack
	case strings.Contains(a.Name, ".zip."):
		return RoleSplitPart
	default:
		return RoleUnclassified
	}
}

func isTexturePackName(name string) bool {
	return strings.HasSuffix(name, "-hd-textures.zip") || strings.HasSuffix(name, ".HD.Textures.zip")
}

// Classify buckets a release's assets into semantic roles. It is a pure
// function: no I/O, deterministic for any input order, and total (every
// asset maps to exactly one role or unclassified).
func Classify(assets []Asset) AssetSet {
	var set AssetSet
	for _, a := range assets {
		a := a
		switch ClassifyAsset(a) {
		case RolePrimaryArchive:
			if set.Primary == nil {
				set.Primary = &a
			}
		case RoleSplitPart:
			set.Parts = append(set.Parts, a)
		case RoleTexturePack:
			if set.TexturePack == nil {
				set.TexturePack = &a
			}
		}
	}

	sort.Slice(set.Parts, func(i, j int) bool {
		return set.Parts[i].Name < set.Parts[j].Name
	})

	return set
}
