package core

import (
	"sort"
	"strings"
)

// BuiltinCategories is the fixed vocabulary offered by both forms.
var BuiltinCategories = []string{
	"Vivienda (Renta/Mtto)", "Servicios (Luz/Agua/Gas)", "Telecom (Telcel/Internet)", "Celdas Solares",
	"Supermercado", "Comidas Fuera (Restaurantes)", "Delivery (Rappi/UberEats)",
	"Auto (Gasolina/Casetas)", "Crédito Auto (BYD)", "Mantenimiento Auto/Trámites", "Transporte App (Uber/Didi)",
	"Salud (Médico/Farmacia)", "Psicóloga", "Cuidado Personal (Barber/Ropa)", "Mascotas (Veterinaria/Alimento)",
	"Suscripciones (Netflix/Spotify/YouTube)", "Software/AI (ChatGPT/iCloud)", "Tecnología (Gadgets/Computación)",
	"Pago Tarjeta (BBVA/AMEX/Banorte)", "Préstamos Personales (Paco/PAX)", "Créditos Bancarios", "Ahorro/Inversión (Cetes/Apartados)",
	"Diversión & Salidas", "Viajes & Vacaciones",
	"Nómina (UNAM)", "Otros Ingresos (Bonos/Aguinaldo)", "Préstamos Recibidos",
}

// EntryCategories returns the vocabulary for the entry form: the built-in
// list alone when no budget categories exist, otherwise the sorted union.
func EntryCategories(builtin, budgeted []string) []string {
	if len(budgeted) == 0 {
		return append([]string(nil), builtin...)
	}
	seen := make(map[string]struct{}, len(builtin)+len(budgeted))
	out := make([]string, 0, len(builtin)+len(budgeted))
	for _, list := range [][]string{builtin, budgeted} {
		for _, c := range list {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
