// Package client is the typed REST client used by the terminal POS. Every
// call issues exactly one request; there are no retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"minimercado/internal/dto"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrConexion covers transport failures and unreadable responses.
var ErrConexion = errors.New("Error de conexión")

const mensajeDesconocido = "Error desconocido"

// APIError is a {success:false} answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }
func WithToken(token string) Option         { return func(c *Client) { c.token = token } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

// ── Auth ─────────────────────────────────────────────────────────────────────

// Login authenticates and keeps the bearer token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.UsuarioResponse, error) {
	var resp dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		dto.LoginRequest{Username: username, Password: password}, "", &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.Usuario, nil
}

func (c *Client) Register(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	var u dto.UsuarioResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, "usuario", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func (c *Client) ListarProductos(ctx context.Context) ([]dto.ProductoResponse, error) {
	var out []dto.ProductoResponse
	err := c.do(ctx, http.MethodGet, "/api/inventario/productos", nil, "productos", &out)
	return out, err
}

func (c *Client) ListarClientes(ctx context.Context) ([]dto.ClienteResponse, error) {
	var out []dto.ClienteResponse
	err := c.do(ctx, http.MethodGet, "/api/clientes", nil, "clientes", &out)
	return out, err
}

func (c *Client) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error) {
	var out dto.ConsultaPreciosResponse
	path := "/api/inventario/precio/" + url.PathEscape(codigo)
	if err := c.do(ctx, http.MethodGet, path, nil, "producto", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func (c *Client) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	var out dto.VentaResponse
	if err := c.do(ctx, http.MethodPost, "/api/ventas", req, "venta", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListarVentas(ctx context.Context) ([]dto.VentaResponse, error) {
	var out []dto.VentaResponse
	err := c.do(ctx, http.MethodGet, "/api/ventas", nil, "ventas", &out)
	return out, err
}

// ── Caja ─────────────────────────────────────────────────────────────────────

func (c *Client) CajaActual(ctx context.Context) (*dto.CajaActualResponse, error) {
	var out dto.CajaActualResponse
	if err := c.do(ctx, http.MethodGet, "/api/caja/actual", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AbrirCaja(ctx context.Context, montoInicial decimal.Decimal) (*dto.CajaResponse, error) {
	var out dto.CajaResponse
	req := dto.AbrirCajaRequest{MontoInicial: montoInicial}
	if err := c.do(ctx, http.MethodPost, "/api/caja/abrir", req, "caja", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CerrarCaja(ctx context.Context, montoFinal decimal.Decimal) (*dto.CierreCajaResponse, error) {
	var out dto.CierreCajaResponse
	req := dto.CerrarCajaRequest{MontoFinal: montoFinal}
	if err := c.do(ctx, http.MethodPost, "/api/caja/cerrar", req, "data", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Transport ────────────────────────────────────────────────────────────────

// do sends one request and decodes the envelope whatever the HTTP status.
// With key empty the whole body is decoded into out, otherwise only that
// member of the envelope.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, key string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("client: request failed")
		return ErrConexion
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrConexion
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		log.Debug().Err(err).Int("status", resp.StatusCode).Str("path", path).Msg("client: unreadable response")
		return ErrConexion
	}

	var success bool
	if v, ok := envelope["success"]; ok {
		_ = json.Unmarshal(v, &success)
	}
	if !success {
		var msg string
		if v, ok := envelope["message"]; ok {
			_ = json.Unmarshal(v, &msg)
		}
		if msg == "" {
			msg = mensajeDesconocido
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if key != "" {
		v, ok := envelope[key]
		if !ok {
			return ErrConexion
		}
		raw = v
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("client: payload mismatch")
		return ErrConexion
	}
	return nil
}
