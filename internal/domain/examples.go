package domain

import "time"

// Example pairs a known incident text with the record a correct extraction
// produces for a fixed reference instant. Served verbatim by the API's
// documentation endpoint and replayed by the CLI self-test.
type Example struct {
	Input     string         `json:"input"`
	Reference string         `json:"reference"`
	Expected  IncidentRecord `json:"expected_output"`
}

// exampleReference is the fixed instant the example outputs were written
// against: a Sunday morning, so "ontem" lands on the 6th.
var exampleReference = time.Date(2025, time.September, 7, 9, 0, 0, 0, time.UTC)

// ExampleReference returns the fixed reference instant for the example set.
func ExampleReference() time.Time { return exampleReference }

// Examples returns the static documentation set of input/output pairs.
func Examples() []Example {
	ref := exampleReference.Format(TimeLayout)
	return []Example{
		{
			Input:     "Ontem às 14h, no escritório de São Paulo, houve uma falha no servidor principal que afetou o sistema de faturamento por 2 horas.",
			Reference: ref,
			Expected: IncidentRecord{
				OccurrenceTime: "2025-09-06 14:00",
				Location:       "São Paulo",
				IncidentType:   "Falha no servidor principal",
				Impact:         "afetou o sistema de faturamento por 2 horas",
			},
		},
		{
			Input:     "Hoje pela manhã ocorreu um problema na rede da filial Rio de Janeiro que deixou o sistema indisponível por 30 minutos.",
			Reference: ref,
			Expected: IncidentRecord{
				OccurrenceTime: "2025-09-07 08:00",
				Location:       "Rio de Janeiro",
				IncidentType:   "Problema na rede",
				Impact:         "sistema indisponível por 30 minutos",
			},
		},
		{
			Input:     "Falha no banco de dados em Brasília durou 1 hora e afetou todas as operações.",
			Reference: ref,
			Expected: IncidentRecord{
				OccurrenceTime: "",
				Location:       "Brasília",
				IncidentType:   "Falha no banco de dados",
				Impact:         "durou 1 hora e afetou todas as operações",
			},
		},
		{
			Input:     "Sistema offline no datacenter SP por manutenção programada das 02h às 06h.",
			Reference: ref,
			Expected: IncidentRecord{
				OccurrenceTime: "2025-09-07 02:00",
				Location:       "SP",
				IncidentType:   "Sistema offline",
				Impact:         "manutenção programada das 02h às 06h",
			},
		},
	}
}
