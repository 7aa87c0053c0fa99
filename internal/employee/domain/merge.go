package domain

// Merge applies patch onto a copy of current and returns the copy. current is
// never modified. Presence is checked per leaf, so a nested patch with one
// field set changes only that field. A nil Passport or Department on current
// is materialized when the patch touches it.
func Merge(current *Employee, patch *UpdateEmployeeRequest) *Employee {
	next := current.Clone()
	if next == nil {
		next = &Employee{}
	}
	if patch == nil {
		return next
	}

	setString(&next.Name, patch.Name)
	setString(&next.Surname, patch.Surname)
	setString(&next.Phone, patch.Phone)
	if patch.CompanyID != nil {
		next.CompanyID = *patch.CompanyID
	}

	if patch.Passport != nil {
		if next.Passport == nil {
			next.Passport = &Passport{ID: next.PassportID}
		}
		setString(&next.Passport.Type, patch.Passport.Type)
		setString(&next.Passport.Number, patch.Passport.Number)
	}

	if patch.Department != nil {
		if next.Department == nil {
			next.Department = &Department{ID: next.DepartmentID}
		}
		setString(&next.Department.Name, patch.Department.Name)
		setString(&next.Department.Phone, patch.Department.Phone)
	}

	return next
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
