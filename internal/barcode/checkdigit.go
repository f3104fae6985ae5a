package barcode

const (
	minCodeLength = 8
	maxCodeLength = 14
	isbn10Length  = 10
)

// GTINCheckDigit computes the weighted mod-10 check digit of a 7 to 13 digit
// base code (GTIN-8 up to GTIN-14). ok is false when the base length is out of range.
func GTINCheckDigit(base string) (digit int, ok bool) {
	base = DigitsOnly(base)
	if len(base) < minCodeLength-1 || len(base) > maxCodeLength-1 {
		return 0, false
	}

	padded := "0000000000000"[len(base):] + base
	sum := 0
	for i := 0; i < len(padded); i++ {
		d := int(padded[i] - '0')
		if i%2 == 0 {
			sum += d * 3
		} else {
			sum += d
		}
	}
	return (10 - sum%10) % 10, true
}

// ISBN10CheckDigit computes the mod-11 check digit of a 9 digit ISBN-10 base.
// A result of 10 (conventionally 'X') is returned as the number 10.
func ISBN10CheckDigit(base string) (digit int, ok bool) {
	base = DigitsOnly(base)
	if len(base) != isbn10Length-1 {
		return 0, false
	}

	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * (10 - i)
	}
	return (11 - sum%11) % 11, true
}

// IsValid reports whether the last digit of code matches its computed check
// digit. Non-digits are ignored; the stripped code must be 8 to 14 digits long.
// Exactly 10 digits are checked as ISBN-10, everything else as GTIN.
func IsValid(code string) bool {
	code = DigitsOnly(code)
	if len(code) < minCodeLength || len(code) > maxCodeLength {
		return false
	}

	base := code[:len(code)-1]
	last := int(code[len(code)-1] - '0')

	var (
		check int
		ok    bool
	)
	if len(code) == isbn10Length {
		check, ok = ISBN10CheckDigit(base)
	} else {
		check, ok = GTINCheckDigit(base)
	}
	return ok && check == last
}
