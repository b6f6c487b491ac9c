package driver

import (
	"fmt"
	"strings"

	"hxsl/internal/compiler"
	"hxsl/internal/module"
	"hxsl/internal/project"
)

// ShaderKey: H(source || options || property table). Всё, от чего зависит
// результат компиляции одного шейдера.
func ShaderKey(mod *module.Module, sh *module.Shader, opts compiler.Options) project.Digest {
	o := fmt.Sprintf("schema=%d depth=%d stack=%d classes=%t unresolved=%t",
		diskCacheSchemaVersion, opts.MaxDepth, opts.MaxStackDepth, opts.Classes, opts.AllowUnresolved)
	props := make([]string, len(mod.Properties))
	for i, p := range mod.Properties {
		props[i] = fmt.Sprintf("%d:%s:%s", p.Index, p.Name, p.Type)
	}
	return project.Combine(
		project.HashString(sh.Source),
		project.HashString(o),
		project.HashString(mod.Name+"\x00"+strings.Join(props, ",")),
	)
}
