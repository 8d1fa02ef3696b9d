package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initErr    error
	once       sync.Once
)

// GetTranslator returns the process-wide shader translator, creating it on
// first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, initErr
}

// Fragment is a translated fragment program and the names the driver will
// know its uniforms by.
type Fragment struct {
	Code     string
	Uniforms map[string]string
}

// TranslateFragment converts a WebGL2 fragment source to desktop GLSL 4.10, or
// to ESSL when running on a GLES context.
func TranslateFragment(source string, isGLES bool) (*Fragment, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("shader translator unavailable: %w", err)
	}
	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	fs, err := t.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}
	uniforms := make(map[string]string, len(fs.Variables))
	for name, v := range fs.Variables {
		uniforms[name] = v.MappedName
	}
	return &Fragment{Code: fs.Code, Uniforms: uniforms}, nil
}
