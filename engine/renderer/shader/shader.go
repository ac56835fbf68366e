package shader

import (
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// shader is the implementation of the Shader interface.
// It holds everything parsed from one WGSL module that pipeline creation needs.
type shader struct {
	label                      string
	source                     string
	vertexEntryPoint           string
	fragmentEntryPoint         string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
}

// Shader is a parsed WGSL module holding one vertex and one fragment entry point.
// Bind group layouts are derived from the module's resource declarations.
type Shader interface {
	// Label returns the debug label used for the shader module.
	Label() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string

	// BindGroupLayoutDescriptor retrieves the layout descriptor of one bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupCount returns one past the highest declared group index.
	BindGroupCount() int

	// BindGroupVarName retrieves the variable name declared at group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName retrieves the binding index of a variable within a group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index associated with the variable name, or -1 if not found
	//   - bool: true if the variable name was found, false otherwise
	BindGroupFromVarName(group int, varName string) (int, bool)

	// MinBindingSize returns the byte size of the buffer bound at group and binding, or 0 if unknown.
	MinBindingSize(group, binding int) uint64

	// Bindings returns the declared binding indices of a group in ascending order.
	Bindings(group int) []int
}

var _ Shader = &shader{}

// NewShader parses a WGSL module.
//
// Parameters:
//   - label: debug label for the module
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if the source lacks a vertex or fragment entry point or binds an unsupported resource
func NewShader(label, source string) (Shader, error) {
	s := &shader{
		label:              label,
		source:             source,
		vertexEntryPoint:   parseEntryPoint(source, wgpu.ShaderStageVertex),
		fragmentEntryPoint: parseEntryPoint(source, wgpu.ShaderStageFragment),
	}
	if s.vertexEntryPoint == "" {
		return nil, fmt.Errorf("shader %s: no @vertex entry point", label)
	}
	if s.fragmentEntryPoint == "" {
		return nil, fmt.Errorf("shader %s: no @fragment entry point", label)
	}

	var err error
	s.bindGroupLayoutDescriptors, s.bindingVarNames, err = parseBindGroupLayouts(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", label, err)
	}
	return s, nil
}

func (s *shader) Label() string {
	return s.label
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupCount() int {
	count := 0
	for g := range s.bindGroupLayoutDescriptors {
		count = max(count, g+1)
	}
	return count
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) MinBindingSize(group, binding int) uint64 {
	for _, e := range s.bindGroupLayoutDescriptors[group].Entries {
		if int(e.Binding) == binding {
			return e.Buffer.MinBindingSize
		}
	}
	return 0
}

func (s *shader) Bindings(group int) []int {
	bindings := make([]int, 0, len(s.bindingVarNames[group]))
	for b := range s.bindingVarNames[group] {
		bindings = append(bindings, b)
	}
	sort.Ints(bindings)
	return bindings
}
