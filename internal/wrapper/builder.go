package wrapper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-rpwrap/pkg/header"
)

// DefaultBufferSize is the constant used to size preallocated rp buffers.
const DefaultBufferSize = "constants.ADC_BUFFER_SIZE"

// DefaultSkip lists the buffer management helpers that have no Python
// counterpart.
var DefaultSkip = []string{"rp_createBuffer", "rp_deleteBuffer"}

// Options configures a Builder.
type Options struct {
	Enums      map[string]string
	Skip       []string
	BufferSize string
	Logger     *slog.Logger
}

// Module is the set of wrappers derived from one header.
type Module struct {
	Name      string     `json:"name"`
	Header    string     `json:"header"`
	Functions []Function `json:"functions"`
	Skipped   []string   `json:"skipped,omitempty"`
}

// Builder derives Python wrappers from parsed headers.
type Builder struct {
	types      TypeMapper
	skip       map[string]struct{}
	bufferSize string
	logger     *slog.Logger
}

// NewBuilder constructs a Builder, filling unset options with defaults.
func NewBuilder(opts Options) *Builder {
	skipList := opts.Skip
	if skipList == nil {
		skipList = DefaultSkip
	}
	skip := make(map[string]struct{}, len(skipList))
	for _, name := range skipList {
		skip[strings.TrimSpace(name)] = struct{}{}
	}
	bufferSize := strings.TrimSpace(opts.BufferSize)
	if bufferSize == "" {
		bufferSize = DefaultBufferSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		types:      NewTypeMapper(opts.Enums),
		skip:       skip,
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// Build converts every function of file. name is the Python module name
// ("acq", "gen", "rp"); its snake cased form prefixes the C names and is
// stripped from the Python ones.
func (b *Builder) Build(name string, file header.File) (Module, error) {
	mod := Module{Name: name, Header: file.Name}
	prefix := name + "_"

	for _, fn := range file.Functions {
		if _, skip := b.skip[fn.Name]; skip {
			b.logger.Debug("skipping function", "module", name, "function", fn.Name)
			mod.Skipped = append(mod.Skipped, fn.Name)
			continue
		}
		wrapped, err := b.Function(fn, prefix)
		if err != nil {
			return Module{}, fmt.Errorf("wrapper: %s: %s: %w", file.Name, fn.Name, err)
		}
		for _, warning := range wrapped.Warnings {
			b.logger.Warn(warning, "module", name, "function", fn.Name)
		}
		b.logger.Debug("converted function", "module", name, "function", fn.Name, "python", wrapped.Name)
		mod.Functions = append(mod.Functions, wrapped)
	}
	for _, perr := range file.Unparsed {
		b.logger.Warn("skipping unparseable declaration", "module", name, "function", perr.Function, "error", perr.Error())
		skipped := perr.Function
		if skipped == "" {
			skipped = fmt.Sprintf("%s:%d", perr.File, perr.Line)
		}
		mod.Skipped = append(mod.Skipped, skipped)
	}
	return mod, nil
}

// Function derives the wrapper for a single prototype.
func (b *Builder) Function(fn header.Function, modulePrefix string) (Function, error) {
	out := Function{
		CName: fn.Name,
		Name:  FuncName(fn.Name, modulePrefix),
		Doc:   header.ParseDoc(fn.Doxygen),
		Post:  "return",
	}

	isGetter := strings.Contains(fn.Name, "Get")
	isSetter := strings.Contains(fn.Name, "Set")
	switch {
	case isGetter && isSetter:
		out.Kind = KindGetter
		out.Warnings = append(out.Warnings, "function is both getter and setter, treating as getter")
	case isGetter:
		out.Kind = KindGetter
	case isSetter:
		out.Kind = KindSetter
	default:
		out.Kind = KindCall
	}

	var warning string
	out.StatusCode, warning = detectStatusCode(fn)
	if warning != "" {
		out.Warnings = append(out.Warnings, warning)
	}

	for _, p := range fn.Params {
		param, err := b.param(p)
		if err != nil {
			return Function{}, err
		}
		out.Params = append(out.Params, param)
	}

	out.Returns = "None"
	var err error
	if out.Kind == KindGetter {
		err = b.getter(fn, &out)
	} else {
		err = b.callOrSetter(fn, &out)
	}
	if err != nil {
		return Function{}, err
	}
	return out, nil
}

func (b *Builder) param(p header.Param) (Param, error) {
	pyType, err := b.types.Python(p.Type.Name)
	if err != nil {
		return Param{}, fmt.Errorf("parameter %s: %w", p.Name, err)
	}
	return Param{
		CName:   p.Name,
		Name:    CamelToSnake(p.Name),
		CType:   p.Type.Name,
		Pointer: p.Type.Pointer,
		PyType:  pyType,
		Enum:    b.types.IsEnum(p.Type.Name),
		InDef:   true,
		InCall:  true,
	}, nil
}

// detectStatusCode combines two hints: an int return type and a doxygen
// block mentioning RP_OK.
func detectStatusCode(fn header.Function) (bool, string) {
	byReturn := !fn.Return.Pointer && fn.Return.Name == "int"
	byDoc := header.MentionsStatusOK(fn.Doxygen)
	switch {
	case byReturn && byDoc:
		return true, ""
	case !byReturn && !byDoc:
		return false, ""
	case byReturn:
		return true, "guessing status code from int return type"
	default:
		return false, "inconsistent status code hints, documentation mentions RP_OK"
	}
}

func (b *Builder) getter(fn header.Function, out *Function) error {
	if idx := indexOf(out.Params, "buffer"); idx >= 0 {
		handled, err := b.bufferGetter(out, idx)
		if err != nil || handled {
			return err
		}
		out.Warnings = append(out.Warnings, "unknown buffer layout, wrapping parameters as-is")
	}

	var outputs []int
	for i, p := range out.Params {
		if p.Pointer {
			outputs = append(outputs, i)
		}
	}

	switch {
	case len(outputs) == 0 && out.StatusCode:
		return nil
	case len(outputs) == 0:
		ret, err := b.returnType(fn.Return)
		if err != nil {
			return err
		}
		out.Returns = ret
	case len(outputs) == 1:
		p := &out.Params[outputs[0]]
		p.InDef, p.InCall = false, false
		out.Returns = p.PyType
	default:
		types := make([]string, 0, len(outputs))
		for _, i := range outputs {
			p := &out.Params[i]
			p.InDef, p.InCall = false, false
			types = append(types, p.PyType)
		}
		out.Returns = "tuple[" + strings.Join(types, ", ") + "]"
	}
	out.HasValue = true
	out.Post = "return __value"
	return nil
}

// bufferGetter handles getters filling a caller allocated buffer, either
// alone or paired with its size ("size, buffer" or "buffer, buffer_size").
func (b *Builder) bufferGetter(out *Function, bufIdx int) (bool, error) {
	sizeIdx := -1
	switch {
	case len(out.Params) == 1:
	case bufIdx > 0 && out.Params[bufIdx-1].CName == "size":
		sizeIdx = bufIdx - 1
	case bufIdx+1 < len(out.Params) && out.Params[bufIdx+1].CName == "buffer_size":
		sizeIdx = bufIdx + 1
	default:
		return false, nil
	}

	buf := &out.Params[bufIdx]
	dtype, err := b.types.Numpy(buf.CType)
	if err != nil {
		return false, err
	}
	alloc, err := b.types.Buffer(buf.CType, b.bufferSize)
	if err != nil {
		return false, err
	}

	buf.InDef = false
	buf.CallValue = buf.Name
	if sizeIdx >= 0 {
		size := &out.Params[sizeIdx]
		size.InDef = false
		size.CallValue = b.bufferSize
		out.HasValue = true
	}

	out.Pre = []string{buf.Name + " = " + alloc}
	out.Post = fmt.Sprintf("return np.fromiter(%s, dtype=%s, count=%s)", buf.Name, dtype, b.bufferSize)
	out.Returns = "npt.NDArray[" + dtype + "]"
	return true, nil
}

func (b *Builder) callOrSetter(fn header.Function, out *Function) error {
	if out.StatusCode || fn.Return.Name == "void" && !fn.Return.Pointer {
		return nil
	}
	ret, err := b.returnType(fn.Return)
	if err != nil {
		return err
	}
	out.Returns = ret
	out.HasValue = true
	out.Post = "return __value"
	return nil
}

func (b *Builder) returnType(t header.Type) (string, error) {
	if t.Pointer {
		if t.Name == "char" {
			return "str", nil
		}
		return "", fmt.Errorf("%w: pointer return %s", ErrUnsupportedType, t)
	}
	if t.Name == "void" {
		return "None", nil
	}
	return b.types.Python(t.Name)
}

func indexOf(params []Param, cname string) int {
	for i, p := range params {
		if p.CName == cname {
			return i
		}
	}
	return -1
}
