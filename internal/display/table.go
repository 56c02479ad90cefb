package display

import (
	"database/sql"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"logingest/pkg/models"
)

var (
	Headers = []string{"user_id", "device_type", "masked_ip", "masked_device_id", "locale", "app_version", "create_date"}

	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

const nullCell = "NULL"

// RenderLogins writes rows as a bordered table headed by title.
func RenderLogins(w io.Writer, title string, rows []models.LoginRow) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range rows {
		t.Row(Cells(r)...)
	}

	if _, err := fmt.Fprintln(w, titleStyle.Render(title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return err
}

// Cells renders one row in header order.
func Cells(r models.LoginRow) []string {
	return []string{
		str(r.UserID),
		str(r.DeviceType),
		str(r.MaskedIP),
		str(r.MaskedDeviceID),
		str(r.Locale),
		integer(r.AppVersion),
		str(r.CreateDate),
	}
}

func str(v sql.NullString) string {
	if !v.Valid {
		return nullCell
	}
	return v.String
}

func integer(v sql.NullInt64) string {
	if !v.Valid {
		return nullCell
	}
	return strconv.FormatInt(v.Int64, 10)
}
