package sheetapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/renovadesk/renova/internal/model"
)

// The spreadsheet backend is loose about cell types: ids arrive as numbers
// or numeric strings, booleans as true/"TRUE"/"VERDADEIRO", and every other
// cell as whatever the operator typed. The flex types below absorb that so
// the rest of the code only sees model values.
//
// Field-name casing also differs between sheets (the closed sheet capitalizes
// its financial columns). encoding/json matches names case-insensitively, so
// one tag per field covers both spellings.

type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexText(s)
		return nil
	}
	*f = flexText(data)
	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var t flexText
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	s := strings.TrimSpace(string(t))
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Sheets sometimes render integer cells as "12.0".
		v, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			*f = 0
			return nil
		}
		n = int(v)
	}
	*f = flexInt(n)
	return nil
}

type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var t flexText
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(string(t))) {
	case "true", "verdadeiro", "sim", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

type leadDTO struct {
	ID              flexInt  `json:"id"`
	Nome            flexText `json:"nome"`
	Modelo          flexText `json:"modelo"`
	AnoModelo       flexText `json:"anoModelo"`
	Cidade          flexText `json:"cidade"`
	Telefone        flexText `json:"telefone"`
	TipoSeguro      flexText `json:"tipoSeguro"`
	Status          flexText `json:"status"`
	Confirmado      flexBool `json:"confirmado"`
	Seguradora      flexText `json:"seguradora"`
	SeguradoraConf  flexBool `json:"seguradoraConfirmada"`
	UsuarioID       flexInt  `json:"usuarioId"`
	Usuario         flexText `json:"usuario"`
	PremioLiquido   flexText `json:"premioLiquido"`
	Comissao        flexText `json:"comissao"`
	Parcelamento    flexText `json:"parcelamento"`
	VigenciaInicial flexText `json:"vigenciaInicial"`
	VigenciaFinal   flexText `json:"vigenciaFinal"`
	DataCriacao     flexText `json:"dataCriacao"`
	Observacao      flexText `json:"observacao"`
	DataAgendamento flexText `json:"dataAgendamento"`
}

func (d leadDTO) toModel(ordinal int) model.Lead {
	id := int(d.ID)
	if id == 0 {
		// Rows written by hand carry no id column; the ordinal position is
		// stable within one snapshot and is all the UI needs.
		id = ordinal + 1
	}
	return model.Lead{
		ID:               id,
		Name:             string(d.Nome),
		VehicleModel:     string(d.Modelo),
		VehicleYearModel: string(d.AnoModelo),
		City:             string(d.Cidade),
		Phone:            string(d.Telefone),
		InsuranceType:    string(d.TipoSeguro),
		Status:           model.ParseStatus(string(d.Status)),
		Confirmed:        bool(d.Confirmado),
		Insurer:          string(d.Seguradora),
		InsurerConfirmed: bool(d.SeguradoraConf),
		AssigneeID:       int(d.UsuarioID),
		AssigneeName:     string(d.Usuario),
		NetPremium:       string(d.PremioLiquido),
		CommissionPct:    string(d.Comissao),
		InstallmentPlan:  string(d.Parcelamento),
		PeriodStart:      string(d.VigenciaInicial),
		PeriodEnd:        string(d.VigenciaFinal),
		CreatedAt:        string(d.DataCriacao),
		Notes:            string(d.Observacao),
		SchedulingDate:   string(d.DataAgendamento),
	}
}

type closedLeadDTO struct {
	ID              flexInt  `json:"id"`
	Nome            flexText `json:"nome"`
	Modelo          flexText `json:"modelo"`
	AnoModelo       flexText `json:"anoModelo"`
	Telefone        flexText `json:"telefone"`
	Status          flexText `json:"status"`
	Seguradora      flexText `json:"Seguradora"`
	SeguradoraConf  flexBool `json:"SeguradoraConfirmada"`
	Usuario         flexText `json:"usuario"`
	PremioLiquido   flexText `json:"PremioLiquido"`
	Comissao        flexText `json:"Comissao"`
	Parcelamento    flexText `json:"Parcelamento"`
	VigenciaInicial flexText `json:"VigenciaInicial"`
	VigenciaFinal   flexText `json:"VigenciaFinal"`
	Observacao      flexText `json:"observacao"`
}

func (d closedLeadDTO) toModel(ordinal int) model.ClosedLead {
	id := int(d.ID)
	if id == 0 {
		id = ordinal + 1
	}
	return model.ClosedLead{
		ID:               id,
		Name:             string(d.Nome),
		VehicleModel:     string(d.Modelo),
		VehicleYearModel: string(d.AnoModelo),
		Phone:            string(d.Telefone),
		Status:           model.ParseStatus(string(d.Status)),
		Insurer:          string(d.Seguradora),
		InsurerConfirmed: bool(d.SeguradoraConf),
		AssigneeName:     string(d.Usuario),
		NetPremium:       string(d.PremioLiquido),
		CommissionPct:    string(d.Comissao),
		InstallmentPlan:  string(d.Parcelamento),
		PeriodStart:      string(d.VigenciaInicial),
		PeriodEnd:        string(d.VigenciaFinal),
		Notes:            string(d.Observacao),
	}
}

type userDTO struct {
	ID       flexInt  `json:"id"`
	Username flexText `json:"usuario"`
	Nome     flexText `json:"nome"`
	Email    flexText `json:"email"`
	Senha    flexText `json:"senha"`
	Status   flexText `json:"status"`
	Perfil   flexText `json:"perfil"`
}

func (d userDTO) toModel() model.User {
	return model.User{
		ID:             int(d.ID),
		Username:       string(d.Username),
		DisplayName:    string(d.Nome),
		Email:          string(d.Email),
		PasswordSecret: string(d.Senha),
		Status:         model.UserStatus(strings.TrimSpace(string(d.Status))),
		Role:           model.Role(strings.TrimSpace(string(d.Perfil))),
	}
}

// confirmInsurerRequest is the alterar_seguradora payload. The backend echoes
// the closed sheet's capitalized column names.
type confirmInsurerRequest struct {
	Action string             `json:"action"`
	Lead   confirmInsurerLead `json:"lead"`
}

type confirmInsurerLead struct {
	ID              int    `json:"id"`
	Seguradora      string `json:"Seguradora"`
	PremioLiquido   string `json:"PremioLiquido"`
	Comissao        string `json:"Comissao"`
	Parcelamento    string `json:"Parcelamento"`
	VigenciaInicial string `json:"VigenciaInicial"`
	VigenciaFinal   string `json:"VigenciaFinal"`
}

type statusRequest struct {
	Action string `json:"action"`
	Lead   int    `json:"lead"`
	Status string `json:"status"`
	Phone  string `json:"phone"`
}

type noteRequest struct {
	Action     string `json:"action"`
	LeadID     int    `json:"leadId"`
	Observacao string `json:"observacao"`
}

type scheduleRequest struct {
	Action       string `json:"action"`
	LeadID       int    `json:"leadId"`
	DataAgendada string `json:"dataAgendada"`
}

type goalRequest struct {
	Action          string  `json:"action"`
	TotalRenovacoes float64 `json:"totalRenovacoes"`
}

type writeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
