// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/framelink/gpu"
)

//go:embed shaders/triangle.wgsl
var triangleShaderWGSL string

// Stage is the pipeline stage of a shader function.
type Stage int

// Shader stages.
const (
	StageVertex Stage = iota
	StageFragment
)

// Library is a compiled shader module and its entry points.
type Library struct {
	device    *Device
	label     string
	module    hal.ShaderModule
	functions map[string]Stage
}

// Function is a shader entry point of a Library.
type Function struct {
	library *Library
	name    string
	stage   Stage
}

// Name implements gpu.Function.
func (f *Function) Name() string { return f.name }

// Stage returns the pipeline stage of the function.
func (f *Function) Stage() Stage { return f.stage }

func newLibrary(d *Device, label, source string) (*Library, error) {
	spirvWords, functions, err := compileShader(source)
	if err != nil {
		return nil, fmt.Errorf("halgpu: library %q: %w", label, err)
	}
	if len(functions) == 0 {
		return nil, fmt.Errorf("halgpu: library %q has no vertex or fragment entry points", label)
	}

	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirvWords},
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create shader module %q: %w", label, err)
	}

	return &Library{
		device:    d,
		label:     label,
		module:    module,
		functions: functions,
	}, nil
}

// NewFunction implements gpu.Library.
func (l *Library) NewFunction(name string) gpu.Function {
	stage, ok := l.functions[name]
	if !ok || l.module == nil {
		return nil
	}
	return &Function{library: l, name: name, stage: stage}
}

// Release implements gpu.Library. Pipelines created from the library
// stay valid.
func (l *Library) Release() {
	if l.module != nil {
		l.device.device.DestroyShaderModule(l.module)
		l.module = nil
	}
}

// compileShader compiles WGSL to little-endian SPIR-V words and returns
// the vertex and fragment entry points of the lowered module.
func compileShader(wgsl string) ([]uint32, map[string]Stage, error) {
	ast, err := naga.Parse(wgsl)
	if err != nil {
		return nil, nil, err
	}
	module, err := naga.LowerWithSource(ast, wgsl)
	if err != nil {
		return nil, nil, fmt.Errorf("lowering error: %w", err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}
	if len(verrs) > 0 {
		return nil, nil, fmt.Errorf("validation failed: %w", &verrs[0])
	}

	functions := make(map[string]Stage, len(module.EntryPoints))
	for _, ep := range module.EntryPoints {
		switch ep.Stage {
		case ir.StageVertex:
			functions[ep.Name] = StageVertex
		case ir.StageFragment:
			functions[ep.Name] = StageFragment
		}
	}

	spirvBytes, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, nil, err
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, functions, nil
}
