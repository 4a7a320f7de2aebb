package sheetsclient

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/account-tracker-api/internal/config"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	sheetsdomain "github.com/vfg2006/account-tracker-api/infrastructure/integrator/sheets/domain"
)

// Client encapsula a API v4 do Google Sheets para uma única planilha.
// Expõe somente as quatro primitivas que o protocolo de espelhamento
// consome: garantir aba, sondar cabeçalho, gravar cabeçalho e anexar linhas.
type Client struct {
	spreadsheetID string
	service       *sheets.Service
}

func NewClient(ctx context.Context, cfg config.Sheets) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, sheetsdomain.ErrNotConfigured
	}

	if _, err := os.Stat(cfg.CredentialsPath); err != nil {
		return nil, fmt.Errorf("%w: credentials file %q not readable", sheetsdomain.ErrNotConfigured, cfg.CredentialsPath)
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets service: %w", err)
	}

	return &Client{
		spreadsheetID: cfg.SpreadsheetID,
		service:       service,
	}, nil
}

// EnsureSheet garante que a aba exista, criando-a quando ausente
func (c *Client) EnsureSheet(ctx context.Context, title string) error {
	spreadsheet, err := c.service.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return sheetsdomain.NewRemoteError("get spreadsheet", title, err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return nil
		}
	}

	logrus.WithField("sheet", title).Info("Criando aba ausente na planilha")

	request := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			},
		},
	}

	if _, err := c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, request).Context(ctx).Do(); err != nil {
		return sheetsdomain.NewRemoteError("add sheet", title, err)
	}

	return nil
}

// HasHeader sonda a célula A1 da aba; false significa aba vazia
func (c *Client) HasHeader(ctx context.Context, title string) (bool, error) {
	probeRange := fmt.Sprintf("%s!A1:A1", title)

	result, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, probeRange).Context(ctx).Do()
	if err != nil {
		return false, sheetsdomain.NewRemoteError("header probe", title, err)
	}

	return len(result.Values) > 0, nil
}

func (c *Client) WriteHeader(ctx context.Context, title string, headers []string) error {
	row := make([]interface{}, 0, len(headers))
	for _, header := range headers {
		row = append(row, header)
	}

	body := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := c.service.Spreadsheets.Values.
		Update(c.spreadsheetID, fmt.Sprintf("%s!A1", title), body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return sheetsdomain.NewRemoteError("write header", title, err)
	}

	return nil
}

// AppendRows anexa todas as linhas em uma única escrita e devolve o
// número de linhas que a API confirmou ter gravado.
func (c *Client) AppendRows(ctx context.Context, title string, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	body := &sheets.ValueRange{Values: rows}

	result, err := c.service.Spreadsheets.Values.
		Append(c.spreadsheetID, fmt.Sprintf("%s!A1", title), body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, sheetsdomain.NewRemoteError("append rows", title, err)
	}

	if result.Updates == nil {
		return 0, sheetsdomain.NewRemoteError("append rows", title, fmt.Errorf("append reported no update summary"))
	}

	return result.Updates.UpdatedRows, nil
}
