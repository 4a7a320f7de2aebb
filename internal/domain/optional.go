package domain

import (
	"bytes"
	"encoding/json"
)

// Campos opcionais usados nos requests de atualização parcial.
// Cada campo distingue três estados: ausente do JSON (Set == false),
// presente com null (Set == true e Valid == false) e presente com valor.
// Ausente significa "não alterar"; null significa "limpar o campo".

var jsonNull = []byte("null")

type OptionalString struct {
	Set   bool
	Valid bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

type OptionalDate struct {
	Set   bool
	Valid bool
	Value Date
}

func (o *OptionalDate) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

type OptionalFloat struct {
	Set   bool
	Valid bool
	Value float64
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
