package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goliatone/go-rpwrap/pkg/module"
	"github.com/goliatone/go-rpwrap/pkg/render/template/gotemplate"
	"github.com/goliatone/go-rpwrap/pkg/templates"
)

func runRender(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	tplPath := fs.String("template", "", "module template file (embedded template if empty)")
	values := setFlag{}
	fs.Var(values, "set", "placeholder value as key=value, or key=@file (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tpl, err := loadModuleTemplate(*tplPath)
	if err != nil {
		return err
	}
	engine, err := gotemplate.New(gotemplate.WithFS(templates.FS()))
	if err != nil {
		return err
	}
	renderer, err := module.NewRenderer(engine, tpl)
	if err != nil {
		return err
	}

	if _, ok := values[module.KeyUnderline]; !ok {
		if qualname, ok := values[module.KeyQualName]; ok {
			values[module.KeyUnderline] = module.Underline(qualname, "~")
		}
	}

	rendered, err := renderer.Render(ctx, "stdin", values)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(e.stdout, rendered.Text)
	return err
}

func loadModuleTemplate(path string) (module.Template, error) {
	if path == "" {
		return module.DefaultTemplate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return module.Template{}, err
	}
	return module.NewTemplate(path, string(data))
}
