package printing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quickmemo/backend/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTemplates(t *testing.T) {
	templates, err := BuiltinTemplates("")
	require.NoError(t, err)
	require.Len(t, templates, 4)

	layouts := make(map[printing.LayoutType]string)
	defaults := 0
	for _, tmpl := range templates {
		require.NoError(t, tmpl.Config.Validate())
		assert.Equal(t, printing.BuiltinTemplateID(tmpl.Slug), tmpl.ID)
		assert.True(t, tmpl.IsActive())
		assert.Empty(t, tmpl.GetDomainEvents())
		layouts[tmpl.Config.LayoutType] = tmpl.Slug
		if tmpl.IsDefault {
			defaults++
			assert.Equal(t, "classic", tmpl.Slug)
			assert.Equal(t, printing.DefaultPrimaryColor, tmpl.Config.PrimaryColor)
		}
	}
	assert.Equal(t, 1, defaults)
	for _, layout := range printing.AllLayoutTypes() {
		assert.Equal(t, layout.String(), layouts[layout])
	}
}

func TestBuiltinTemplates_IDsAreStable(t *testing.T) {
	first, err := BuiltinTemplates("")
	require.NoError(t, err)
	second, err := BuiltinTemplates("")
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestBuiltinTemplates_Presets(t *testing.T) {
	templates, err := BuiltinTemplates("")
	require.NoError(t, err)

	bySlug := make(map[string]*printing.InvoiceTemplate)
	for _, tmpl := range templates {
		bySlug[tmpl.Slug] = tmpl
	}

	bold := bySlug["bold"]
	require.NotNil(t, bold)
	assert.Equal(t, "Item", bold.Preset.ItemsHeader)
	require.Len(t, bold.Preset.DefaultItems, 2)
	assert.Equal(t, "450", bold.Preset.DefaultItems[0].UnitPrice.String())
	assert.True(t, bold.Config.ShowLogo)
}

func TestBuiltinTemplates_ExternalDir(t *testing.T) {
	t.Run("override replaces embedded set", func(t *testing.T) {
		dir := t.TempDir()
		data := `[{"slug":"shop-red","name":"Shop Red","isDefault":true,"config":{"primaryColor":"#DC2626","layoutType":"bold"}}]`
		require.NoError(t, os.WriteFile(filepath.Join(dir, builtinTemplatesFile), []byte(data), 0o644))

		templates, err := BuiltinTemplates(dir)
		require.NoError(t, err)
		require.Len(t, templates, 1)
		assert.Equal(t, printing.Color("#dc2626"), templates[0].Config.PrimaryColor)
		assert.Equal(t, printing.LayoutBold, templates[0].Config.LayoutType)
		assert.Equal(t, printing.DefaultAccentColor, templates[0].Config.AccentColor)
	})

	t.Run("invalid override is rejected", func(t *testing.T) {
		dir := t.TempDir()
		data := `[{"slug":"broken","name":"Broken","config":{"layoutType":"fancy"}}]`
		require.NoError(t, os.WriteFile(filepath.Join(dir, builtinTemplatesFile), []byte(data), 0o644))

		_, err := BuiltinTemplates(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})

	t.Run("two defaults are rejected", func(t *testing.T) {
		dir := t.TempDir()
		data := `[{"slug":"a","name":"A","isDefault":true},{"slug":"b","name":"B","isDefault":true}]`
		require.NoError(t, os.WriteFile(filepath.Join(dir, builtinTemplatesFile), []byte(data), 0o644))

		_, err := BuiltinTemplates(dir)
		assert.Error(t, err)
	})
}

func TestSeedBuiltinTemplates(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds an empty repository once", func(t *testing.T) {
		repo, err := NewTemplateStore(&TemplateStoreConfig{Empty: true})
		require.NoError(t, err)

		templates, err := BuiltinTemplates("")
		require.NoError(t, err)
		seeded, err := SeedBuiltinTemplates(ctx, repo, templates, nil)
		require.NoError(t, err)
		assert.Equal(t, 4, seeded)

		def, err := repo.FindDefault(ctx)
		require.NoError(t, err)
		assert.Equal(t, "classic", def.Slug)

		templates, err = BuiltinTemplates("")
		require.NoError(t, err)
		seeded, err = SeedBuiltinTemplates(ctx, repo, templates, nil)
		require.NoError(t, err)
		assert.Zero(t, seeded)
	})

	t.Run("keeps an existing default", func(t *testing.T) {
		repo, err := NewTemplateStore(&TemplateStoreConfig{Empty: true})
		require.NoError(t, err)

		custom, err := printing.NewInvoiceTemplate("house-style", "House Style", printing.DefaultTemplateConfig())
		require.NoError(t, err)
		require.NoError(t, custom.SetAsDefault())
		require.NoError(t, repo.Save(ctx, custom))

		templates, err := BuiltinTemplates("")
		require.NoError(t, err)
		_, err = SeedBuiltinTemplates(ctx, repo, templates, nil)
		require.NoError(t, err)

		def, err := repo.FindDefault(ctx)
		require.NoError(t, err)
		assert.Equal(t, "house-style", def.Slug)

		classic, err := repo.FindBySlug(ctx, "classic")
		require.NoError(t, err)
		assert.False(t, classic.IsDefault)
	})
}
