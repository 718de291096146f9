package testutil

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/sclorg/container-common-scripts/pkg/distgen"
	"github.com/sclorg/container-common-scripts/pkg/multispec"
)

// MockRenderer is a testify mock of distgen.Renderer
type MockRenderer struct {
	mock.Mock
}

// Render records the call and returns the configured result and error
func (m *MockRenderer) Render(ctx context.Context, req distgen.Request) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

// WriteOutput is a mock Run hook that writes content to the request output,
// standing in for a successful render
func WriteOutput(content string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		req := args.Get(1).(distgen.Request)
		if err := os.WriteFile(req.Output, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
}

// StaticExpander returns fixed combinations for any multispec path
type StaticExpander struct {
	Combinations []multispec.Combination
	Err          error
	// Paths records every expanded path
	Paths []string
}

// ExpandCombinations implements multispec.Expander
func (e *StaticExpander) ExpandCombinations(path string) ([]multispec.Combination, error) {
	e.Paths = append(e.Paths, path)
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Combinations, nil
}

// Combinations builds one combination per distro for version
func Combinations(version string, distros ...string) []multispec.Combination {
	out := make([]multispec.Combination, 0, len(distros))
	for _, d := range distros {
		out = append(out, multispec.Combination{
			Distro:    d,
			Version:   version,
			Selectors: map[string]string{multispec.VersionGroup: version},
		})
	}
	return out
}

var (
	_ distgen.Renderer   = (*MockRenderer)(nil)
	_ multispec.Expander = (*StaticExpander)(nil)
)
