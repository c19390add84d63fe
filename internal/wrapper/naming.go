package wrapper

import (
	"strings"
	"unicode"
)

// acronymFixes keeps the pin and coupling acronyms of the rp API readable
// once snake cased (GPIOn -> gpio_n rather than g_p_i_on).
var acronymFixes = strings.NewReplacer(
	"GPIOn", "gpio_n",
	"GPIOp", "gpio_p",
	"AOpin", "ao_pin",
	"AIpin", "ai_pin",
	"DOpin", "do_pin",
	"DIpin", "di_pin",
	"AC_DC", "Ac_dc",
)

// CamelToSnake converts rp identifiers such as "AcqGetDataPosRaw" into
// "acq_get_data_pos_raw". An underscore is inserted before an upper case
// letter that is followed by a lower case one or preceded by one.
func CamelToSnake(name string) string {
	name = acronymFixes.Replace(name)
	runes := []rune(name)
	if len(runes) < 2 {
		return strings.ToLower(name)
	}

	var b strings.Builder
	b.WriteRune(runes[0])
	for i := 1; i < len(runes)-1; i++ {
		r := runes[i]
		if unicode.IsUpper(r) {
			followedByLower := !unicode.IsUpper(runes[i+1])
			precededByLower := !unicode.IsUpper(runes[i-1])
			if followedByLower || precededByLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	b.WriteRune(runes[len(runes)-1])
	return strings.ToLower(b.String())
}

// FuncName derives the Python name of a C function: the "rp_" prefix is
// dropped, the rest snake cased, doubled underscores collapsed and the module
// prefix ("acq_", "gen_") removed.
func FuncName(cname, modulePrefix string) string {
	s := CamelToSnake(strings.TrimPrefix(cname, "rp_"))
	s = strings.ReplaceAll(s, "__", "_")
	if modulePrefix != "" && strings.HasPrefix(s, modulePrefix) {
		return s[len(modulePrefix):]
	}
	return s
}

// PascalCase turns "acq_trig_src" into "AcqTrigSrc".
func PascalCase(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' }) {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
