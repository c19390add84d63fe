package wrapper

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedType is returned for C types with no Python mapping.
var ErrUnsupportedType = errors.New("wrapper: unsupported C type")

// DefaultEnums maps the rp enum typedefs onto the enum classes declared in
// constants.py.
var DefaultEnums = map[string]string{
	"rp_dpin_t":            "Pin",
	"rp_pinState_t":        "PinState",
	"rp_outTiggerMode_t":   "OutTriggerMode",
	"rp_pinDirection_t":    "PinDirection",
	"rp_apin_t":            "AnalogPin",
	"rp_waveform_t":        "Waveform",
	"rp_gen_mode_t":        "GenMode",
	"rp_gen_sweep_dir_t":   "GenSweepDirection",
	"rp_gen_sweep_mode_t":  "GenSweepMode",
	"rp_trig_src_t":        "TriggerSource",
	"rp_gen_gain_t":        "GenGain",
	"rp_channel_t":         "Channel",
	"rp_channel_trigger_t": "TriggerChannel",
	"rp_eq_filter_cof_t":   "EqFilterCoefficient",
	"rp_acq_decimation_t":  "Decimation",
	"rp_acq_ac_dc_mode_t":  "AcqMode",
	"rp_acq_trig_src_t":    "AcqTriggerSource",
	"rp_acq_trig_state_t":  "AcqTriggerState",
}

// TypeMapper translates C type names into Python annotations.
type TypeMapper struct {
	enums map[string]string
}

// NewTypeMapper builds a mapper; a nil enums map selects DefaultEnums.
func NewTypeMapper(enums map[string]string) TypeMapper {
	if enums == nil {
		enums = DefaultEnums
	}
	return TypeMapper{enums: enums}
}

// IsEnum reports whether ctype is passed to rp as "<name>.value".
func (m TypeMapper) IsEnum(ctype string) bool {
	_, ok := m.enums[ctype]
	return ok
}

// Python returns the annotation used for ctype.
func (m TypeMapper) Python(ctype string) (string, error) {
	switch {
	case isUnsigned(ctype), isSigned(ctype):
		return "int", nil
	case ctype == "int", ctype == "unsigned int", ctype == "long", ctype == "unsigned long":
		return "int", nil
	case ctype == "float", ctype == "double":
		return "float", nil
	case ctype == "bool":
		return "bool", nil
	case ctype == "buffers_t":
		return "np.ndarray", nil
	case ctype == "char":
		return "str", nil
	}
	if enum, ok := m.enums[ctype]; ok {
		return "constants." + enum, nil
	}
	if strings.HasPrefix(ctype, "rp_") {
		trimmed := strings.TrimSuffix(strings.TrimPrefix(ctype, "rp_"), "_t")
		return "constants." + PascalCase(trimmed), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ctype)
}

// Numpy returns the numpy dtype for a buffer element type.
func (m TypeMapper) Numpy(ctype string) (string, error) {
	switch {
	case isUnsigned(ctype):
		return "np.uint" + bitWidth(ctype, "uint"), nil
	case isSigned(ctype):
		return "np.int" + bitWidth(ctype, "int"), nil
	case ctype == "float":
		return "np.float32", nil
	case ctype == "double":
		return "np.float64", nil
	}
	return "", fmt.Errorf("%w: no numpy dtype for %s", ErrUnsupportedType, ctype)
}

// Buffer returns the rp buffer constructor for elements of ctype.
func (m TypeMapper) Buffer(ctype, size string) (string, error) {
	switch {
	case ctype == "float", ctype == "double":
		return fmt.Sprintf("rp.fBuffer(%s)", size), nil
	case isUnsigned(ctype):
		return fmt.Sprintf("rp.uBuffer(%s)", size), nil
	case isSigned(ctype):
		return fmt.Sprintf("rp.iBuffer(%s)", size), nil
	}
	return "", fmt.Errorf("%w: no rp buffer for %s", ErrUnsupportedType, ctype)
}

// isUnsigned matches the fixed width uintN_t typedefs.
func isUnsigned(ctype string) bool {
	return strings.HasPrefix(ctype, "uint") && strings.HasSuffix(ctype, "_t")
}

// isSigned matches the fixed width intN_t typedefs.
func isSigned(ctype string) bool {
	return strings.HasPrefix(ctype, "int") && strings.HasSuffix(ctype, "_t")
}

func bitWidth(ctype, prefix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(ctype, prefix), "_t")
}
