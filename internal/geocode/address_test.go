// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddressBuilder_Build(t *testing.T) {
	t.Run("building without coordinates fails", func(t *testing.T) {
		builder := NewAddressBuilder("test")
		builder.SetLocality("Paris")
		if _, err := builder.Build(); !errors.Is(err, ErrMissingCoordinates) {
			t.Errorf("expected error to be %s, got %v", ErrMissingCoordinates, err)
		}
	})
	t.Run("built address is detached from the builder", func(t *testing.T) {
		builder := NewAddressBuilder("test")
		builder.SetCoordinates(48.8566, 2.3522)
		builder.AddAdminLevel(2, "Paris", "75")
		builder.SetExtension("political", "Paris")

		addr, err := builder.Build()
		if err != nil {
			t.Fatalf("failed to build address: %s", err)
		}
		builder.AddAdminLevel(1, "Île-de-France", "IDF")
		builder.SetExtension("political", "France")
		builder.SetExtension("airport", "Orly")

		if val, _ := addr.Extension("political"); val != "Paris" {
			t.Errorf("expected political extension Paris, got %q", val)
		}
		if _, ok := addr.Extension("airport"); ok {
			t.Error("expected airport extension to be unset")
		}
		want := []AdminLevel{{Level: 2, Name: "Paris", Code: "75"}}
		if diff := cmp.Diff(want, addr.AdminLevels()); diff != "" {
			t.Errorf("admin levels mismatch (-want +got):\n%s", diff)
		}

		second, err := builder.Build()
		if err != nil {
			t.Fatalf("failed to build address: %s", err)
		}
		if len(second.AdminLevels()) != 2 {
			t.Errorf("expected 2 admin levels on second build, got %d", len(second.AdminLevels()))
		}
		if diff := cmp.Diff(want, addr.AdminLevels()); diff != "" {
			t.Errorf("admin levels of first build changed (-want +got):\n%s", diff)
		}
	})
	t.Run("all fields are carried over", func(t *testing.T) {
		builder := NewAddressBuilder("test")
		builder.SetCoordinates(48.8566, 2.3522)
		builder.SetStreetNumber("10")
		builder.SetStreetName("Rue de Rivoli")
		builder.SetPostalCode("75001")
		builder.SetLocality("Paris")
		builder.SetSubLocality("Louvre")
		builder.SetCountry("France", "FR")
		builder.SetID("abc")
		builder.SetLocationType("ROOFTOP")
		builder.SetFormattedAddress("10 Rue de Rivoli, 75001 Paris, France")
		builder.SetResultTypes([]string{"street_address"})
		builder.AddAdminLevel(2, "Paris", "75")
		builder.AddAdminLevel(1, "Île-de-France", "IDF")
		builder.SetExtension("political", "Paris")

		addr, err := builder.Build()
		if err != nil {
			t.Fatalf("failed to build address: %s", err)
		}
		if addr.Provider() != "test" {
			t.Errorf("expected provider test, got %q", addr.Provider())
		}
		if diff := cmp.Diff(Coordinates{Latitude: 48.8566, Longitude: 2.3522}, addr.Coordinates()); diff != "" {
			t.Errorf("coordinates mismatch (-want +got):\n%s", diff)
		}
		got := []string{
			addr.StreetNumber(), addr.StreetName(), addr.PostalCode(), addr.Locality(), addr.SubLocality(),
			addr.Country(), addr.CountryCode(), addr.ID(), addr.LocationType(), addr.FormattedAddress(),
		}
		want := []string{
			"10", "Rue de Rivoli", "75001", "Paris", "Louvre", "France", "FR", "abc", "ROOFTOP",
			"10 Rue de Rivoli, 75001 Paris, France",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("field mismatch (-want +got):\n%s", diff)
		}
		wantLevels := []AdminLevel{{Level: 1, Name: "Île-de-France", Code: "IDF"}, {Level: 2, Name: "Paris", Code: "75"}}
		if diff := cmp.Diff(wantLevels, addr.AdminLevels()); diff != "" {
			t.Errorf("admin levels mismatch (-want +got):\n%s", diff)
		}
		if val, ok := addr.Extension("political"); !ok || val != "Paris" {
			t.Errorf("expected political extension to be Paris, got %q/%t", val, ok)
		}
	})
	t.Run("first admin level entry wins", func(t *testing.T) {
		builder := NewAddressBuilder("test")
		builder.SetCoordinates(0, 0)
		builder.AddAdminLevel(1, "first", "")
		builder.AddAdminLevel(1, "second", "")
		addr, err := builder.Build()
		if err != nil {
			t.Fatalf("failed to build address: %s", err)
		}
		if diff := cmp.Diff([]AdminLevel{{Level: 1, Name: "first"}}, addr.AdminLevels()); diff != "" {
			t.Errorf("admin levels mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("unset extensions stay absent", func(t *testing.T) {
		builder := NewAddressBuilder("test")
		builder.SetCoordinates(0, 0)
		builder.SetExtension("park", "")
		addr, err := builder.Build()
		if err != nil {
			t.Fatalf("failed to build address: %s", err)
		}
		if _, ok := addr.Extension("airport"); ok {
			t.Error("expected airport extension to be absent")
		}
		if val, ok := addr.Extension("park"); !ok || val != "" {
			t.Errorf("expected park extension to be set to an empty string, got %q/%t", val, ok)
		}
	})
	t.Run("accessors return copies", func(t *testing.T) {
		builder := NewAddressBuilder("test")
		builder.SetCoordinates(0, 0)
		builder.SetResultTypes([]string{"locality"})
		builder.SetExtension("ward", "A")
		addr, err := builder.Build()
		if err != nil {
			t.Fatalf("failed to build address: %s", err)
		}
		types := addr.ResultTypes()
		types[0] = "changed"
		ext := addr.Extensions()
		ext["ward"] = "changed"
		if addr.ResultTypes()[0] != "locality" {
			t.Error("expected result types to be immutable")
		}
		if val, _ := addr.Extension("ward"); val != "A" {
			t.Error("expected extensions to be immutable")
		}
	})
}

func TestFinalizeSublocalityLevels(t *testing.T) {
	tests := []struct {
		name string
		in   []SublocalityLevel
		want []SublocalityLevel
	}{
		{"nil input", nil, nil},
		{
			"duplicates are collapsed",
			[]SublocalityLevel{{Level: 1, Name: "A"}, {Level: 1, Name: "A"}},
			[]SublocalityLevel{{Level: 1, Name: "A"}},
		},
		{
			"level zero is dropped",
			[]SublocalityLevel{{Level: 0, Name: "A"}, {Level: 2, Name: "B"}},
			[]SublocalityLevel{{Level: 2, Name: "B"}},
		},
		{
			"empty name and code is dropped",
			[]SublocalityLevel{{Level: 1}, {Level: 1, Code: "X"}},
			[]SublocalityLevel{{Level: 1, Code: "X"}},
		},
		{
			"order of first appearance is kept",
			[]SublocalityLevel{{Level: 2, Name: "B"}, {Level: 1, Name: "A"}, {Level: 2, Name: "B"}},
			[]SublocalityLevel{{Level: 2, Name: "B"}, {Level: 1, Name: "A"}},
		},
		{
			"levels beyond five are kept",
			[]SublocalityLevel{{Level: 7, Name: "deep"}},
			[]SublocalityLevel{{Level: 7, Name: "deep"}},
		},
		{"everything invalid", []SublocalityLevel{{Level: -1, Name: "A"}}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, FinalizeSublocalityLevels(tc.in)); diff != "" {
				t.Errorf("sublocality levels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddress_MarshalJSON(t *testing.T) {
	builder := NewAddressBuilder("woosmap")
	builder.SetCoordinates(59.3293, 18.0686)
	builder.SetLocality("Stockholm")
	addr, err := builder.Build()
	if err != nil {
		t.Fatalf("failed to build address: %s", err)
	}
	data, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("failed to marshal address: %s", err)
	}
	for _, want := range []string{`"locality":"Stockholm"`, `"postal_code":null`, `"latitude":59.3293`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected JSON to contain %s, got %s", want, data)
		}
	}
	if strings.Contains(string(data), "extensions") {
		t.Errorf("expected empty extensions to be omitted, got %s", data)
	}
}
