package funcionariohandler

import (
	"net/http"

	"github.com/jung-kurt/gofpdf"

	"cadastro/internal/domain/funcionario"
)

// handleExport streams a PDF roster of the records matching the same
// filters as the listing, unpaginated up to ExportMax.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.Export(r.Context(), listParamsFromRequest(r), h.ExportMax)
	if err != nil {
		h.fault(w, r, err, "Failed to export funcionarios")
		return
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, tr("Relatório de Funcionários"))
	pdf.Ln(12)

	widths := []float64{80, 40, 55, 60, 22, 20}
	headers := []string{"Nome", "CPF", tr("Função"), "Cidade/UF", tr("Situação"), "Superv."}

	pdf.SetFont("Helvetica", "B", 9)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, record := range records {
		pdf.CellFormat(widths[0], 6, tr(record.Nome), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, funcionario.FormatCPF(record.CPF), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(strValue(record.Funcao)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(cityState(record)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, situacao(record.Ativo), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[5], 6, tr(simNao(record.Supervisor)), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="funcionarios.pdf"`)
	if err := pdf.Output(w); err != nil {
		h.fault(w, r, err, "Failed to export funcionarios")
	}
}

func strValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func cityState(record funcionario.Funcionario) string {
	city := strValue(record.Cidade)
	state := strValue(record.Estado)
	switch {
	case city != "" && state != "":
		return city + "/" + state
	case city != "":
		return city
	default:
		return state
	}
}

func situacao(ativo bool) string {
	if ativo {
		return "Ativo"
	}
	return "Inativo"
}

func simNao(value bool) string {
	if value {
		return "Sim"
	}
	return "Não"
}
