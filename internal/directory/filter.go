package directory

import (
	"slices"
	"sort"
	"strings"
)

// Facet names one filterable dimension.
type Facet string

const (
	FacetSpecialty Facet = "specialty"
	FacetLocation  Facet = "location"
	FacetService   Facet = "service"
)

// ParseFacet maps a query-string or CLI name to a Facet.
func ParseFacet(name string) (Facet, bool) {
	switch Facet(strings.ToLower(strings.TrimSpace(name))) {
	case FacetSpecialty, "specialties":
		return FacetSpecialty, true
	case FacetLocation, "locations", "city":
		return FacetLocation, true
	case FacetService, "services":
		return FacetService, true
	}
	return "", false
}

// Filters are the three independent facet selections. Each set matches by
// OR; the sets combine by AND. An empty set matches everything.
type Filters struct {
	Specialties []string `json:"specialties"`
	Locations   []string `json:"locations"`
	Services    []string `json:"services"`
}

func (f *Filters) set(facet Facet) *[]string {
	switch facet {
	case FacetSpecialty:
		return &f.Specialties
	case FacetLocation:
		return &f.Locations
	case FacetService:
		return &f.Services
	}
	return nil
}

// Toggle adds value to the facet set, or removes it when already selected.
// Insertion order is preserved for display.
func (f *Filters) Toggle(facet Facet, value string) {
	values := f.set(facet)
	if values == nil {
		return
	}
	if i := slices.Index(*values, value); i >= 0 {
		*values = slices.Delete(*values, i, i+1)
		return
	}
	*values = append(*values, value)
}

// Selected reports whether value is part of the facet set.
func (f Filters) Selected(facet Facet, value string) bool {
	values := f.set(facet)
	return values != nil && slices.Contains(*values, value)
}

// Clear empties every facet set.
func (f *Filters) Clear() {
	f.Specialties = nil
	f.Locations = nil
	f.Services = nil
}

// Empty reports whether no facet value is selected.
func (f Filters) Empty() bool {
	return len(f.Specialties) == 0 && len(f.Locations) == 0 && len(f.Services) == 0
}

// Clone returns a deep copy so callers can keep a snapshot.
func (f Filters) Clone() Filters {
	return Filters{
		Specialties: slices.Clone(f.Specialties),
		Locations:   slices.Clone(f.Locations),
		Services:    slices.Clone(f.Services),
	}
}

// Filter returns the providers matching the query and every non-empty facet
// set, in their original order.
func Filter(providers []Provider, query string, filters Filters) []Provider {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if matchesQuery(p, q) &&
			matchesSpecialties(p, filters.Specialties) &&
			matchesLocations(p, filters.Locations) &&
			matchesServices(p, filters.Services) {
			out = append(out, p)
		}
	}
	return out
}

// matchesQuery expects q already lowercased and trimmed.
func matchesQuery(p Provider, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	for _, s := range p.Specialties {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	for _, s := range p.Services {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func matchesSpecialties(p Provider, selected []string) bool {
	return len(selected) == 0 || intersects(p.Specialties, selected)
}

func matchesLocations(p Provider, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, c := range p.Clinics {
		if slices.Contains(selected, c.City) {
			return true
		}
	}
	return false
}

func matchesServices(p Provider, selected []string) bool {
	return len(selected) == 0 || intersects(p.Services, selected)
}

func intersects(have, want []string) bool {
	for _, v := range have {
		if slices.Contains(want, v) {
			return true
		}
	}
	return false
}

// Facets are the option lists offered by the filter UI.
type Facets struct {
	Specialties []string `json:"specialties"`
	Locations   []string `json:"locations"`
	Services    []string `json:"services"`
}

// DeriveFacets collects the sorted, de-duplicated specialties, clinic
// cities and services of the unfiltered provider list.
func DeriveFacets(providers []Provider) Facets {
	specialties := map[string]struct{}{}
	locations := map[string]struct{}{}
	services := map[string]struct{}{}
	for _, p := range providers {
		for _, s := range p.Specialties {
			specialties[s] = struct{}{}
		}
		for _, c := range p.Clinics {
			locations[c.City] = struct{}{}
		}
		for _, s := range p.Services {
			services[s] = struct{}{}
		}
	}
	return Facets{
		Specialties: sortedKeys(specialties),
		Locations:   sortedKeys(locations),
		Services:    sortedKeys(services),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
