package persona

import (
	"fmt"
	"strconv"
)

func validate(r *Result) {
	seen := make(map[string]bool, len(r.Entries))

	for _, e := range r.Entries {
		seen[e.Key] = true

		if e.Key == FieldPeople {
			validatePeople(r, e)
			continue
		}

		field, ok := lookup(ScalarFields, e.Key)
		if !ok {
			r.Issues = append(r.Issues, Issue{Field: e.Key, Message: "unknown field"})
			continue
		}
		if e.IsList {
			r.Issues = append(r.Issues, Issue{Field: e.Key, Message: "expected a single value, got a list"})
			continue
		}
		if !field.Allowed(e.Value) {
			r.Issues = append(r.Issues, Issue{Field: e.Key, Message: fmt.Sprintf("unexpected value %q", e.Value)})
		}
	}

	// The rubric lets the model omit people for a single person.
	if count, ok := r.Entry(FieldNumberOfPeople); !seen[FieldPeople] && (!ok || count.Value != "1") {
		r.Issues = append(r.Issues, Issue{Field: FieldPeople, Message: "missing"})
	}
	for _, f := range ScalarFields {
		if !seen[f.Key] {
			r.Issues = append(r.Issues, Issue{Field: f.Key, Message: "missing"})
		}
	}

	checkPeopleCount(r)
}

func validatePeople(r *Result, e Entry) {
	if !e.IsList {
		r.Issues = append(r.Issues, Issue{Field: FieldPeople, Message: "expected a list"})
		return
	}

	for i, item := range e.Items {
		name := fmt.Sprintf("%s[%d]", FieldPeople, i+1)
		if !item.isObject {
			r.Issues = append(r.Issues, Issue{Field: name, Message: "expected an object"})
			continue
		}

		present := make(map[string]bool, len(item.Attributes))
		for _, a := range item.Attributes {
			present[a.Key] = true

			field, ok := lookup(PersonFields, a.Key)
			if !ok {
				r.Issues = append(r.Issues, Issue{Field: name + "." + a.Key, Message: "unknown field"})
				continue
			}
			if !field.Allowed(a.Value) {
				r.Issues = append(r.Issues, Issue{Field: name + "." + a.Key, Message: fmt.Sprintf("unexpected value %q", a.Value)})
			}
		}
		for _, f := range PersonFields {
			if !present[f.Key] {
				r.Issues = append(r.Issues, Issue{Field: name + "." + f.Key, Message: "missing"})
			}
		}
	}
}

// checkPeopleCount compares the people list with number_of_people when the
// latter is an exact count. ">5" only requires more than five entries.
func checkPeopleCount(r *Result) {
	countEntry, ok := r.Entry(FieldNumberOfPeople)
	if !ok || countEntry.IsList {
		return
	}
	people, ok := r.Entry(FieldPeople)
	if !ok || !people.IsList {
		return
	}

	got := len(people.Items)
	if countEntry.Value == ">5" {
		if got <= 5 {
			r.Issues = append(r.Issues, Issue{
				Field:   FieldPeople,
				Message: fmt.Sprintf("number_of_people is >5 but %d described", got),
			})
		}
		return
	}

	want, err := strconv.Atoi(countEntry.Value)
	if err != nil {
		return
	}
	if want != got {
		r.Issues = append(r.Issues, Issue{
			Field:   FieldPeople,
			Message: fmt.Sprintf("number_of_people is %d but %d described", want, got),
		})
	}
}
