package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
)

const (
	isoLayout = "2006-01-02"

	minLocalizedYear = 1900
	maxLocalizedYear = 2100
)

var localizedRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// Date es una fecha de calendario sin hora ni zona horaria.
// El valor cero (0000-00-00) no es una fecha válida.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New construye una fecha validándola contra el calendario real.
func New(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDateFormat, year, int(month), day)
	}
	return d, nil
}

// MustDate es para literales en tests y tablas estáticas.
func MustDate(year int, month time.Month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime descarta la hora usando la zona de t (no convierte a UTC antes).
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today devuelve la fecha de calendario de now en loc (UTC si loc es nil).
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(now.In(loc))
}

// Valid reporta si la tripleta corresponde a un día real.
// Se valida reconstruyendo con time.Date: 31/02 se normaliza a marzo y no coincide.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 || d.Day > 31 {
		return false
	}
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && t.Month() == d.Month && t.Day() == d.Day
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Time devuelve la medianoche UTC de la fecha.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// ISO renderiza YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Format renderiza DD/MM/YYYY (formato de pantalla).
func (d Date) Format() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

func (d Date) String() string {
	return d.ISO()
}

func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

// AddDays suma n días (n puede ser negativo).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths suma n meses de calendario.
// Si el mes destino no tiene el día original, se usa el último día del mes destino
// (31/01 + 1 mes = 28 o 29/02). time.AddDate no sirve acá porque desborda al mes siguiente.
func (d Date) AddMonths(n int) Date {
	total := d.Year*12 + int(d.Month-1) + n
	year := floorDiv(total, 12)
	month := time.Month(total-year*12) + 1

	day := d.Day
	if last := daysIn(year, month); day > last {
		day = last
	}
	return Date{Year: year, Month: month, Day: day}
}

// ParseISO lee YYYY-MM-DD.
func ParseISO(text string) (Date, error) {
	s := strings.TrimSpace(text)
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q must be YYYY-MM-DD", ErrInvalidDateFormat, text)
	}
	return FromTime(t), nil
}

// ParseLocalized lee DD/MM/YYYY con rangos día 1-31, mes 1-12, año 1900-2100
// y además exige que la fecha exista (31/02/2024 se rechaza).
func ParseLocalized(text string) (Date, error) {
	m := localizedRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Date{}, fmt.Errorf("%w: %q must be DD/MM/YYYY", ErrInvalidDateFormat, text)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if day < 1 || day > 31 || month < 1 || month > 12 || year < minLocalizedYear || year > maxLocalizedYear {
		return Date{}, fmt.Errorf("%w: %q out of range", ErrInvalidDateFormat, text)
	}

	d := Date{Year: year, Month: time.Month(month), Day: day}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%w: %q is not a calendar date", ErrInvalidDateFormat, text)
	}
	return d, nil
}

// ApplyMask inserta las barras mientras el usuario tipea dígitos:
// "1" -> "1", "1203" -> "12/03", "12032024" -> "12/03/2024". Ignora lo que no sea dígito.
func ApplyMask(input string) string {
	digits := make([]byte, 0, 8)
	for i := 0; i < len(input) && len(digits) < 8; i++ {
		if c := input[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}

	switch {
	case len(digits) <= 2:
		return string(digits)
	case len(digits) <= 4:
		return string(digits[:2]) + "/" + string(digits[2:])
	default:
		return string(digits[:2]) + "/" + string(digits[2:4]) + "/" + string(digits[4:])
	}
}

// ParseInput es la entrada única desde formularios y query params.
// Acepta YYYY-MM-DD, DD/MM/YYYY o exactamente 8 dígitos (DDMMYYYY).
// En los tres casos el año tiene que estar en 1900-2100; lo demás se rechaza.
func ParseInput(text string) (Date, error) {
	s := strings.TrimSpace(text)
	switch {
	case s == "":
		return Date{}, fmt.Errorf("%w: empty", ErrInvalidDateFormat)
	case strings.Contains(s, "-"):
		d, err := ParseISO(s)
		if err != nil {
			return Date{}, err
		}
		if d.Year < minLocalizedYear || d.Year > maxLocalizedYear {
			return Date{}, fmt.Errorf("%w: %q out of range", ErrInvalidDateFormat, text)
		}
		return d, nil
	case strings.Contains(s, "/"):
		return ParseLocalized(s)
	case isDigits(s, 8):
		return ParseLocalized(ApplyMask(s))
	default:
		return Date{}, fmt.Errorf("%w: %q must be DD/MM/YYYY or YYYY-MM-DD", ErrInvalidDateFormat, text)
	}
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.ISO()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseISO(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func daysIn(year int, month time.Month) int {
	// día 0 del mes siguiente = último día de month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
