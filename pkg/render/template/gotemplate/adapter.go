package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-rpwrap/pkg/render/template"
)

// Option configures the go-template adapter before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	globalData map[string]any
	preHooks   []gotemplatepkg.PreHook
	postHooks  []gotemplatepkg.PostHook
}

// WithBaseDir configures the underlying engine to load templates from a base
// directory on disk. Directory templates shadow the embedded ones.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS configures the underlying engine to load templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobalData seeds global context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithPreHooks registers go-template pre hooks. They run in order before
// every render and may replace the data or the template name.
func WithPreHooks(hooks ...gotemplatepkg.PreHook) Option {
	return func(cfg *config) {
		cfg.preHooks = append(cfg.preHooks, hooks...)
	}
}

// WithPostHooks registers go-template post hooks. They run in order on the
// rendered text before it is returned or written.
func WithPostHooks(hooks ...gotemplatepkg.PostHook) Option {
	return func(cfg *config) {
		cfg.postHooks = append(cfg.postHooks, hooks...)
	}
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
// Output is never HTML escaped: templates produce Python source.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	loaders     []pongo2.TemplateLoader
	templates   map[string]*pongo2.Template
	tplExt      string
	hooks       *gotemplatepkg.HookManager
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("rpwrap", loaders...),
		loaders:     loaders,
		templates:   make(map[string]*pongo2.Template),
		tplExt:      ".tpl",
		hooks:       gotemplatepkg.NewHooksManager(),
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for _, hook := range cfg.preHooks {
		engine.RegisterPreHook(hook)
	}
	for _, hook := range cfg.postHooks {
		engine.RegisterPostHook(hook)
	}

	return engine, nil
}

// Render renders inline template content or a named template.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders a template loaded from the configured loaders.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	hookCtx := &gotemplatepkg.HookContext{
		TemplateName: name,
		Data:         data,
		Metadata:     map[string]any{"ext": e.tplExt},
		IsPreHook:    true,
	}
	if err := e.runPreHooks(hookCtx); err != nil {
		return "", err
	}

	templatePath := hookCtx.TemplateName
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, templatePath, hookCtx, out)
}

// RenderString parses and renders templateContent.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	hookCtx := &gotemplatepkg.HookContext{
		Template:  templateContent,
		Data:      data,
		Metadata:  map[string]any{},
		IsPreHook: true,
	}
	if err := e.runPreHooks(hookCtx); err != nil {
		return "", err
	}

	tmpl, err := e.templateSet.FromString(withoutAutoescape(hookCtx.Template))
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.execute(tmpl, "string", hookCtx, out)
}

// RegisterPreHook adds a go-template pre hook to every later render.
func (e *Engine) RegisterPreHook(hook gotemplatepkg.PreHook) {
	if hook != nil {
		e.hooks.AddPreHook(hook)
	}
}

// RegisterPostHook adds a go-template post hook to every later render.
func (e *Engine) RegisterPostHook(hook gotemplatepkg.PostHook) {
	if hook != nil {
		e.hooks.AddPostHook(hook)
	}
}

// RegisterFilter registers a pongo2 filter. Filters are process wide, so a
// name can only be registered once.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsSafeValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext merges data into the globals visible to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(globalCtx)
	return nil
}

func (e *Engine) runPreHooks(hookCtx *gotemplatepkg.HookContext) error {
	for _, hook := range e.hooks.PreHooks() {
		if err := hook(hookCtx); err != nil {
			return fmt.Errorf("gotemplate: pre hook: %w", err)
		}
	}
	hookCtx.IsPreHook = false
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, label string, hookCtx *gotemplatepkg.HookContext, out []io.Writer) (string, error) {
	viewContext, err := convertToContext(hookCtx.Data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", label, err)
	}

	hookCtx.Output = buf.String()
	for _, hook := range e.hooks.PostHooks() {
		rendered, err := hook(hookCtx)
		if err != nil {
			return "", fmt.Errorf("gotemplate: post hook: %w", err)
		}
		hookCtx.Output = rendered
	}

	rendered := hookCtx.Output
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	raw, err := e.readTemplate(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	tmpl, err := e.templateSet.FromString(withoutAutoescape(raw))
	if err != nil {
		return nil, fmt.Errorf("gotemplate: parse template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

// readTemplate returns the source of the first loader that knows path. The
// base directory loader is consulted before the embedded fs.FS.
func (e *Engine) readTemplate(path string) (string, error) {
	var lastErr error
	for _, loader := range e.loaders {
		reader, err := loader.Get(loader.Abs("", path))
		if err != nil {
			lastErr = err
			continue
		}
		raw, err := io.ReadAll(reader)
		if closer, ok := reader.(io.Closer); ok {
			_ = closer.Close()
		}
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	if lastErr == nil {
		lastErr = fs.ErrNotExist
	}
	return "", lastErr
}

// withoutAutoescape wraps content so pongo2 leaves quotes and angle brackets
// in generated source alone.
func withoutAutoescape(content string) string {
	return "{% autoescape off %}" + content + "{% endautoescape %}"
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}

func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return convertMapToContext(map[string]any(v))
	case map[string]any:
		return convertMapToContext(v)
	case map[string]string:
		out := make(pongo2.Context, len(v))
		for key, value := range v {
			if key = strings.TrimSpace(key); key != "" {
				out[key] = value
			}
		}
		return out, nil
	default:
		m, err := gotemplatepkg.ConvertToContext(v)
		if err != nil {
			return nil, err
		}
		return convertMapToContext(m)
	}
}

func convertMapToContext(in map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

func convertValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if isCallable(value) {
		return value, nil
	}

	switch v := value.(type) {
	case string, bool, int, int64, float64:
		return v, nil
	case pongo2.Context:
		return convertMap(map[string]any(v))
	case map[string]any:
		return convertMap(v)
	case []any:
		return convertSlice(v)
	default:
		raw, err := jsonToAny(v)
		if err != nil {
			return nil, err
		}
		switch decoded := raw.(type) {
		case map[string]any:
			return convertMap(decoded)
		case []any:
			return convertSlice(decoded)
		default:
			return decoded, nil
		}
	}
}

func convertMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

func convertSlice(in []any) ([]any, error) {
	out := make([]any, 0, len(in))
	for _, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func jsonToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("underline") {
		_ = pongo2.RegisterFilter("underline", filterUnderline)
	}
	if !pongo2.FilterExists("indent") {
		_ = pongo2.RegisterFilter("indent", filterIndent)
	}
}

// filterUnderline repeats the parameter (default "~") once per rune of the
// input: {{ qualname|underline }}.
func filterUnderline(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	char := "~"
	if param != nil && !param.IsNil() && param.String() != "" {
		char = param.String()
	}
	return pongo2.AsSafeValue(strings.Repeat(char, utf8.RuneCountInString(in.String()))), nil
}

// filterIndent prefixes every non-blank line with param spaces (default 4).
func filterIndent(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	width := 4
	if param != nil && !param.IsNil() {
		width = param.Integer()
	}
	prefix := strings.Repeat(" ", width)

	lines := strings.Split(in.String(), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return pongo2.AsSafeValue(strings.Join(lines, "\n")), nil
}
