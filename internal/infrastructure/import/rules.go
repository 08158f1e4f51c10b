package csvimport

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FieldType is the expected type of a column
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDecimal FieldType = "decimal"
)

// FieldRule describes how one column is validated
type FieldRule struct {
	Column    string
	Aliases   []string
	Type      FieldType
	Required  bool
	MaxLength int
	MinValue  *decimal.Decimal
	Unique    bool
}

// FieldRuleBuilder builds a FieldRule fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for column
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Type: TypeString}}
}

// Aliases lists other header names accepted for the column
func (b *FieldRuleBuilder) Aliases(names ...string) *FieldRuleBuilder {
	b.rule.Aliases = append(b.rule.Aliases, names...)
	return b
}

// Required marks the column as required in the header and in every row
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Decimal expects a decimal amount; thousands separators are accepted
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// MaxLength bounds the number of characters
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// MinValue bounds a decimal from below
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// Unique rejects a value already seen in an earlier row, ignoring case
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

// Build returns the rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// resolve returns the header that carries the rule's column
func (r FieldRule) resolve(p *Parser) (string, bool) {
	for _, name := range append([]string{r.Column}, r.Aliases...) {
		if p.HasHeader(name) {
			return name, true
		}
	}
	return "", false
}

// FieldValidator checks rows against rules and collects errors
type FieldValidator struct {
	rules   []FieldRule
	columns map[string]string
	seen    map[string]map[string]int
	errors  *ErrorCollection
}

// NewFieldValidator binds rules to the parser's header. It fails with a
// MissingColumnsError when a required column has no matching header.
func NewFieldValidator(p *Parser, rules []FieldRule, maxErrors int) (*FieldValidator, error) {
	v := &FieldValidator{
		rules:   rules,
		columns: make(map[string]string, len(rules)),
		seen:    make(map[string]map[string]int),
		errors:  NewErrorCollection(maxErrors),
	}
	var missing []string
	for _, r := range rules {
		header, ok := r.resolve(p)
		if !ok {
			if r.Required {
				missing = append(missing, r.Column)
			}
			continue
		}
		v.columns[r.Column] = header
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return v, nil
}

// Value returns a row's value for a rule column
func (v *FieldValidator) Value(row *Row, column string) string {
	header, ok := v.columns[column]
	if !ok {
		return ""
	}
	return row.Get(header)
}

// ValidateRow reports whether every rule passed
func (v *FieldValidator) ValidateRow(row *Row) bool {
	valid := true
	for _, rule := range v.rules {
		value := v.Value(row, rule.Column)
		if err, ok := v.check(rule, value); !ok {
			err.Row = row.LineNumber
			v.errors.Add(err)
			valid = false
			continue
		}
		if rule.Unique && value != "" {
			key := strings.ToLower(value)
			if v.seen[rule.Column] == nil {
				v.seen[rule.Column] = make(map[string]int)
			}
			if first, dup := v.seen[rule.Column][key]; dup {
				v.errors.Add(RowError{
					Row:     row.LineNumber,
					Column:  rule.Column,
					Code:    ErrCodeDuplicate,
					Message: fmt.Sprintf("duplicate value (first seen in row %d)", first),
					Value:   value,
				})
				valid = false
				continue
			}
			v.seen[rule.Column][key] = row.LineNumber
		}
	}
	return valid
}

func (v *FieldValidator) check(rule FieldRule, value string) (RowError, bool) {
	fail := func(code, msg string) (RowError, bool) {
		return RowError{Column: rule.Column, Code: code, Message: msg, Value: value}, false
	}
	if value == "" {
		if rule.Required {
			return fail(ErrCodeRequiredField, "value is required")
		}
		return RowError{}, true
	}
	if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
		return fail(ErrCodeInvalidLength, fmt.Sprintf("must be at most %d characters", rule.MaxLength))
	}
	if rule.Type == TypeDecimal {
		d, err := ParseAmount(value)
		if err != nil {
			return fail(ErrCodeInvalidType, "must be a number")
		}
		if rule.MinValue != nil && d.LessThan(*rule.MinValue) {
			return fail(ErrCodeInvalidRange, "must be at least "+rule.MinValue.String())
		}
	}
	return RowError{}, true
}

// Errors returns the collected errors
func (v *FieldValidator) Errors() *ErrorCollection {
	return v.errors
}

// ParseAmount parses a price cell such as "1,250.50" or "৳ 90"
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", "৳", "", "Tk", "", "tk", "", " ", "").Replace(s)
	return decimal.NewFromString(cleaned)
}
