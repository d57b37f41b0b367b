package field

import "errors"

// Identifiers of the newsletter signup form, in submission order.
const (
	IDName           = "name"
	IDEmail          = "email"
	IDPassword       = "password"
	IDRepeatPassword = "repeatPassword"
	IDAge            = "age"
	IDPhone          = "phone"
	IDAddress        = "address"
	IDCity           = "city"
	IDPostalCode     = "postalCode"
	IDNationalID     = "nationalId"
)

type fieldTemplate struct {
	id        string
	label     string
	elementID string
	kind      Kind
	predicate Predicate
	message   string
}

func newsletterFields() []fieldTemplate {
	return []fieldTemplate{
		{IDName, "Full name", "name", KindText, FullName(),
			"Must be longer than 6 characters and contain at least one space."},
		{IDEmail, "Email", "email", KindEmail, Email(),
			"Invalid email format."},
		{IDPassword, "Password", "password", KindPassword, Password(),
			"Must be at least 8 characters long and include letters and numbers."},
		{IDRepeatPassword, "Repeat password", "repeat-password", KindPassword, MatchesField(IDPassword),
			"Passwords do not match."},
		{IDAge, "Age", "age", KindNumber, IntegerAtLeast(18),
			"Must be a whole number greater than or equal to 18."},
		{IDPhone, "Phone", "phone", KindTel, Phone(),
			"Must contain at least 7 digits with no symbols."},
		{IDAddress, "Address", "address", KindText, Address(),
			"Must include letters, numbers and a space, at least 5 characters."},
		{IDCity, "City", "city", KindText, MinLength(3),
			"Must be at least 3 characters long."},
		{IDPostalCode, "Postal code", "postal-code", KindText, MinLength(3),
			"Must be at least 3 characters long."},
		{IDNationalID, "National ID", "national-id", KindText, NationalID(),
			"Must have 7 or 8 digits."},
	}
}

// Newsletter builds the ten-field signup registry, binding each field to the
// input the provider returns for its identifier.
func Newsletter(inputs InputProvider) (*Registry, error) {
	if inputs == nil {
		return nil, errors.New("field: input provider is required")
	}
	reg := NewRegistry()
	for _, s := range newsletterFields() {
		err := reg.Register(s.id, inputs.Input(s.id), s.predicate, s.message,
			WithLabel(s.label),
			WithElementID(s.elementID),
			WithKind(s.kind),
		)
		if err != nil {
			return nil, err
		}
	}
	return reg, nil
}
