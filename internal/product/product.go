package product

import (
	"fmt"
	"os/exec"
)

// Strategy selects how a release archive set is extracted.
type Strategy int

const (
	// StrategySingleArchive downloads one zip and extracts it directly.
	StrategySingleArchive Strategy = iota
	// StrategySplitArchive downloads sequentially-named parts and hands
	// the first one to an external extraction tool.
	StrategySplitArchive
)

// TextureLayout selects how an HD texture pack is unpacked.
type TextureLayout int

const (
	// TextureFiltered keeps only archive entries under the game ID
	// segment and re-roots them relative to it.
	TextureFiltered TextureLayout = iota
	// TexturePlain extracts the whole archive as-is.
	TexturePlain
)

// GameID is the Dolphin title ID texture lookups are keyed on.
const GameID = "RSBE01"

// DolphinUserDir is the per-AppImage Dolphin data directory, relative to
// the directory containing the launchable artifact. Texture packs land
// under it because Dolphin resolves custom textures from there.
const DolphinUserDir = "Project-Plus-Dolphin.AppImage.home/.local/share/project-plus-dolphin"

// ErrToolMissing reports that a product's required external tool is not
// on PATH. The product is disabled rather than the whole launcher failing.
type ErrToolMissing struct {
	Product string
	Tool    string
}

func (e *ErrToolMissing) Error() string {
	return fmt.Sprintf("%s requires %q which was not found on PATH", e.Product, e.Tool)
}

// Product is the immutable configuration for one game variant.
type Product struct {
	ID            string
	DisplayName   string
	Owner         string // GitHub repository owner
	Repo          string // GitHub repository name
	DirName       string // subdirectory under the base install dir
	Strategy      Strategy
	TextureLayout TextureLayout
	// RequiredTool, when set, must resolve via exec.LookPath for the
	// product to be available (7z for split archives).
	RequiredTool string
}

// ShortcutName is the basename used for this product's .desktop files.
func (p Product) ShortcutName() string {
	return "project-plus-" + p.ID + ".desktop"
}

// Available reports whether the product can be installed on this system.
// A nil error means available; *ErrToolMissing explains a disabled one.
func (p Product) Available() error {
	if p.RequiredTool == "" {
		return nil
	}
	if _, err := exec.LookPath(p.RequiredTool); err != nil {
		return &ErrToolMissing{Product: p.DisplayName, Tool: p.RequiredTool}
	}
	return nil
}

var (
	// ProjectPlus ships as a single AppImage zip.
	ProjectPlus = Product{
		ID:            "project-plus",
		DisplayName:   "Project+",
		Owner:         "Project-Plus-Development-Team",
		Repo:          "Project-Plus-Dolphin",
		DirName:       "ProjectPlus",
		Strategy:      StrategySingleArchive,
		TextureLayout: TextureFiltered,
	}

	// REX ships as a multi-part split archive and needs 7z to reassemble.
	REX = Product{
		ID:            "rex",
		DisplayName:   "REX",
		Owner:         "the-outcaster",
		Repo:          "rex-for-linux",
		DirName:       "REX",
		Strategy:      StrategySplitArchive,
		TextureLayout: TexturePlain,
		RequiredTool:  "7z",
	}
)

// Catalog lists every known product in display order.
var Catalog = []Product{ProjectPlus, REX}

// ByID looks a product up by its identifier.
func ByID(id string) (Product, error) {
	for _, p := range Catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("unknown product: %s", id)
}
