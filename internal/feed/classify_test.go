package feed

import (
	"testing"
)

// TestClassifyAsset tests the name-pattern role rules
func TestClassifyAsset(t *testing.T) {
	tests := []struct {
		name  string
		asset string
		want  Role
	}{
		{"appimage zip is primary", "Faster_Project_Plus-x86_64.AppImage.zip", RolePrimaryArchive},
		{"split part 001", "rex.zip.001", RoleSplitPart},
		{"split part 010", "rex.zip.010", RoleSplitPart},
		{"rex texture pack", "rex-hd-textures.zip", RoleTexturePack},
		{"project plus texture pack", "Project.Plus.HD.Textures.zip", RoleTexturePack},
		{"plain zip is unclassified", "source.zip", RoleUnclassified},
		{"checksums are unclassified", "checksums.txt", RoleUnclassified},
		{"empty name is unclassified", "", RoleUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyAsset(Asset{Name: tt.asset}); got != tt.want {
				t.Errorf("ClassifyAsset(%q) = %v, want %v", tt.asset, got, tt.want)
			}
		})
	}
}

// TestClassify_SplitPartOrdering tests that parts come out in lexical
// order regardless of the order the feed lists them in
func TestClassify_SplitPartOrdering(t *testing.T) {
	assets := []Asset{
		{Name: "pack.zip.003", Size: 10},
		{Name: "pack.zip.001", Size: 10},
		{Name: "pack.zip.002", Size: 10},
	}

	set := Classify(assets)

	want := []string{"pack.zip.001", "pack.zip.002", "pack.zip.003"}
	if len(set.Parts) != len(want) {
		t.Fatalf("Classify() parts = %d, want %d", len(set.Parts), len(want))
	}
	for i, name := range want {
		if set.Parts[i].Name != name {
			t.Errorf("Classify() parts[%d] = %q, want %q", i, set.Parts[i].Name, name)
		}
	}
}

// TestClassify_FullReleaseBuckets tests a mixed asset list
func TestClassify_FullReleaseBuckets(t *testing.T) {
	assets := []Asset{
		{Name: "README.txt", Size: 1},
		{Name: "rex-hd-textures.zip", Size: 500},
		{Name: "rex.zip.002", Size: 1000},
		{Name: "rex.zip.001", Size: 1000},
	}

	set := Classify(assets)

	if set.Primary != nil {
		t.Errorf("Classify() primary = %v, want nil", set.Primary)
	}
	if len(set.Parts) != 2 {
		t.Errorf("Classify() parts = %d, want 2", len(set.Parts))
	}
	if set.TexturePack == nil || set.TexturePack.Name != "rex-hd-textures.zip" {
		t.Errorf("Classify() texture pack = %v, want rex-hd-textures.zip", set.TexturePack)
	}
	if !set.Installable() {
		t.Error("Classify() set with parts should be installable")
	}
	if got := set.InstallSize(); got != 2000 {
		t.Errorf("InstallSize() = %d, want 2000", got)
	}
}

// TestClassify_EmptySet tests that an uninstallable set is reported as such
func TestClassify_EmptySet(t *testing.T) {
	set := Classify([]Asset{
		{Name: "notes.txt"},
		{Name: "icon.png"},
	})

	if set.Installable() {
		t.Error("Classify() set with no archives should not be installable")
	}
	if got := set.InstallSize(); got != 0 {
		t.Errorf("InstallSize() = %d, want 0", got)
	}
}

// TestClassify_Deterministic tests that two input orderings of the same
// assets yield the same classification
func TestClassify_Deterministic(t *testing.T) {
	forward := []Asset{
		{Name: "Game.AppImage.zip", Size: 100},
		{Name: "pack.zip.001", Size: 1},
		{Name: "pack.zip.002", Size: 2},
	}
	reversed := []Asset{
		{Name: "pack.zip.002", Size: 2},
		{Name: "pack.zip.001", Size: 1},
		{Name: "Game.AppImage.zip", Size: 100},
	}

	a, b := Classify(forward), Classify(reversed)

	if a.Primary.Name != b.Primary.Name {
		t.Errorf("primary differs: %q vs %q", a.Primary.Name, b.Primary.Name)
	}
	for i := range a.Parts {
		if a.Parts[i].Name != b.Parts[i].Name {
			t.Errorf("parts[%d] differs: %q vs %q", i, a.Parts[i].Name, b.Parts[i].Name)
		}
	}
}
