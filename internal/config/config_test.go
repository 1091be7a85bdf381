package config

import (
	"os"
	"path/filepath"
	"testing"

	"fbx-scene-import/internal/scene"
)

func TestResolveDefaults(t *testing.T) {
	cfg := Default()
	cfg.Resolve(Flags{InputDir: "scenes"})

	if cfg.OutputDir != filepath.Join("scenes", "imported") || cfg.TextureDir != "scenes" {
		t.Fatalf("paths: %q %q", cfg.OutputDir, cfg.TextureDir)
	}
	if cfg.TargetUnit != "m" || cfg.MaxUVs != 4 || cfg.RenderSize != 256 || cfg.Supersample != 2 {
		t.Fatalf("defaults: %+v", cfg)
	}
	if !cfg.Preview || cfg.Workers <= 0 {
		t.Fatalf("preview %v workers %d", cfg.Preview, cfg.Workers)
	}

	opt, err := cfg.ImportOptions()
	if err != nil {
		t.Fatalf("import options: %v", err)
	}
	if !opt.Target.Unit.Equal(scene.Meter) || opt.Target.Axis != scene.EngineAxis {
		t.Fatalf("target: %+v", opt.Target)
	}
	if opt.Walk.Mesh.SecondaryFrom != scene.TextureEmissive || opt.Walk.Mesh.SecondaryTo != scene.TypeCount {
		t.Fatalf("secondary range: %v..%v", opt.Walk.Mesh.SecondaryFrom, opt.Walk.Mesh.SecondaryTo)
	}
}

func TestLoadAndFlagsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"input_dir": "/data", "output_dir": "out", "target_unit": "cm", "max_uvs": 2,
		"secondary_uv_from": "ambient", "preserve_source": true, "workers": 3}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Resolve(Flags{Workers: 8, NoPreview: true})

	if cfg.OutputDir != filepath.Join("/data", "out") {
		t.Fatalf("output dir: %q", cfg.OutputDir)
	}
	if cfg.Workers != 8 || cfg.Preview {
		t.Fatalf("flags not applied: workers %d preview %v", cfg.Workers, cfg.Preview)
	}
	opt, err := cfg.ImportOptions()
	if err != nil {
		t.Fatalf("import options: %v", err)
	}
	if !opt.Target.Unit.Equal(scene.Centimeter) || opt.Walk.Mesh.MaxUVs != 2 || !opt.PreserveSource {
		t.Fatalf("options: %+v", opt)
	}
	if opt.Walk.Mesh.SecondaryFrom != scene.TextureAmbient {
		t.Fatalf("secondary from: %v", opt.Walk.Mesh.SecondaryFrom)
	}
}

func TestImportOptionsErrors(t *testing.T) {
	for _, mutate := range []func(*Config){
		func(c *Config) { c.TargetUnit = "parsec" },
		func(c *Config) { c.SecondaryFrom = "glow" },
		func(c *Config) { c.SecondaryFrom, c.SecondaryTo = "specular", "emissive" },
		func(c *Config) { c.SecondaryFrom, c.SecondaryTo = "ambient", "ambient" },
		func(c *Config) { c.SecondaryFrom, c.SecondaryTo = "unknown", "unknown" },
	} {
		cfg := Default()
		cfg.Resolve(Flags{})
		mutate(&cfg)
		if _, err := cfg.ImportOptions(); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error")
	}
}
