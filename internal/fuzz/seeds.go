package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

const maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса

const maxFuzzInput = 1 << 16 // 64 KiB

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addScenarioSeeds(f)
	// минимальные примеры на случай пустого testdata
	f.Add([]byte{})
	f.Add([]byte("namespace N; struct S { float4 p : SV_Position; }; S main(S s) { return s; }\n"))
	f.Add([]byte("module M \"1.0.0\"; property float4 Tint = 1, 1, 1, 1; shader S { namespace N; @Tint; }\n"))
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".hxsl" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addScenarioSeeds берёт исходники из сценариев компилятора.
func addScenarioSeeds(f *testing.F) {
	path := filepath.Join("..", "compiler", "testdata", "scenarios.yaml")
	// #nosec G304 -- path is a fixed repository location
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var scenarios []struct {
		Source string `yaml:"source"`
	}
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		return
	}
	for _, sc := range scenarios {
		if sc.Source != "" {
			f.Add(clampSeed([]byte(sc.Source)))
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
