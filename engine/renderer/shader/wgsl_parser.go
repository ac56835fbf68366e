package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	// The type capture (.+) is greedy to handle parameterized types like array<T, N>.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// functionRegex matches a function header and captures the optional stage attribute and the name.
	// Attributes such as @workgroup_size may sit between the stage and the fn keyword.
	functionRegex = regexp.MustCompile(`(?:@(vertex|fragment|compute)\b[^{};]*?)?\bfn\s+(\w+)\s*\(`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> data: Data;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// stageAttributes maps WGSL entry point attributes to shader stages.
var stageAttributes = map[string]wgpu.ShaderStage{
	"vertex":   wgpu.ShaderStageVertex,
	"fragment": wgpu.ShaderStageFragment,
	"compute":  wgpu.ShaderStageCompute,
}

// parseBindGroupLayouts extracts all @group(N) @binding(M) resource declarations from WGSL
// source and returns them as wgpu.BindGroupLayoutDescriptor values grouped by group index.
// Each descriptor's entries are sorted by binding index. The visibility of each entry is the
// set of entry point stages whose body, or any function reachable from it, references the variable.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layout descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding index
//   - error: error if a declaration binds an unsupported resource type
func parseBindGroupLayouts(source string) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string, error) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)
	cleaned := stripComments(source)

	// Struct sizes give MinBindingSize on buffer entries so callers can size buffers from the layout.
	structSizes := computeStructSizes(parseStructBlocks(cleaned))
	functions := parseFunctions(cleaned)

	for _, decl := range parseBindings(cleaned) {
		if names := varNames[decl.group]; names != nil {
			if prev, dup := names[decl.binding]; dup {
				return nil, nil, fmt.Errorf("shader: @group(%d) @binding(%d) declared twice (%s, %s)", decl.group, decl.binding, prev, decl.varName)
			}
		}

		visibility := stageVisibility(decl.varName, functions)
		entry, err := classifyResource(uint32(decl.binding), visibility, decl.addressSpace, decl.typeName)
		if err != nil {
			return nil, nil, fmt.Errorf("shader: %s: %w", decl.varName, err)
		}

		if layout, ok := resolveTypeLayout(decl.typeName, structSizes); ok && layout.size > 0 {
			entry.Buffer.MinBindingSize = layout.size
		}

		groups[decl.group] = append(groups[decl.group], entry)
		if varNames[decl.group] == nil {
			varNames[decl.group] = make(map[int]string)
		}
		varNames[decl.group][decl.binding] = decl.varName
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("Bind Group Layout %d", g),
			Entries: entries,
		}
	}

	return result, varNames, nil
}

// parseBindings returns every resource declaration in declaration order.
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedBinding: the declarations found
func parseBindings(source string) []parsedBinding {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(source, -1)
	bindings := make([]parsedBinding, 0, len(matches))
	for _, match := range matches {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		bindings = append(bindings, parsedBinding{
			group:        group,
			binding:      binding,
			addressSpace: strings.TrimSpace(match[3]),
			varName:      strings.TrimSpace(match[4]),
			typeName:     strings.TrimSpace(match[5]),
		})
	}
	return bindings
}

// parseFunctions finds every function in the source along with its body.
// Entry points carry their stage; helper functions carry wgpu.ShaderStageNone.
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedFunction: functions in source order
func parseFunctions(source string) []parsedFunction {
	var functions []parsedFunction
	for _, loc := range functionRegex.FindAllStringSubmatchIndex(source, -1) {
		stage := wgpu.ShaderStageNone
		if loc[2] >= 0 {
			stage = stageAttributes[source[loc[2]:loc[3]]]
		}
		name := source[loc[4]:loc[5]]

		open := strings.IndexByte(source[loc[1]:], '{')
		if open < 0 {
			continue
		}
		open += loc[1]
		end, ok := matchBrace(source, open)
		if !ok {
			continue
		}
		functions = append(functions, parsedFunction{
			name:  name,
			stage: stage,
			body:  source[open+1 : end],
		})
	}
	return functions
}

// parseEntryPoint returns the name of the first entry point declared for stage,
// or an empty string if the source has none.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - stage: the entry point stage to look for
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, stage wgpu.ShaderStage) string {
	for _, fn := range parseFunctions(stripComments(source)) {
		if fn.stage == stage {
			return fn.name
		}
	}
	return ""
}

// stageVisibility computes which entry point stages use a module-scope variable.
// A stage sees the variable if its entry point body, or any helper function transitively
// called from it, names the variable outside of a member access.
//
// Parameters:
//   - varName: the module-scope variable name
//   - functions: every function in the module
//
// Returns:
//   - wgpu.ShaderStage: the union of stages referencing the variable
func stageVisibility(varName string, functions []parsedFunction) wgpu.ShaderStage {
	byName := make(map[string]parsedFunction, len(functions))
	for _, fn := range functions {
		byName[fn.name] = fn
	}
	uses := identifierRegex(varName, "")

	visibility := wgpu.ShaderStageNone
	for _, entry := range functions {
		if entry.stage == wgpu.ShaderStageNone {
			continue
		}

		visited := map[string]bool{entry.name: true}
		stack := []parsedFunction{entry}
		for len(stack) > 0 {
			fn := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if uses.MatchString(fn.body) {
				visibility |= entry.stage
				break
			}
			for name, callee := range byName {
				if visited[name] || callee.stage != wgpu.ShaderStageNone {
					continue
				}
				if identifierRegex(name, `\s*\(`).MatchString(fn.body) {
					visited[name] = true
					stack = append(stack, callee)
				}
			}
		}
	}
	return visibility
}

// identifierRegex matches name as a standalone identifier, not as a member after '.', followed by suffix.
func identifierRegex(name, suffix string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^.\w])` + regexp.QuoteMeta(name) + `\b` + suffix)
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
// and parses their fields including @builtin attributes
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedStruct: all struct blocks found in the source
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}

	return structs
}

// parseStructFields parses the body of a struct block into individual fields.
//
// Parameters:
//   - body: the content between { and } of a struct declaration
//
// Returns:
//   - []parsedField: all fields found in the struct body
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		fields = append(fields, parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			isBuiltin: builtinRegex.MatchString(line),
		})
	}

	return fields
}
