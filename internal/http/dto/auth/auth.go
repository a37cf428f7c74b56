// Package auth contiene los DTOs del flujo de autenticación.
package auth

import "time"

// TokenRequest: intercambio directo de código por sesión (clientes SPA que
// guardaron el verifier ellos mismos). redirect_uri se acepta por forma
// OAuth; el servidor siempre canjea contra la redirect URI configurada.
type TokenRequest struct {
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
}

// TokenResponse: sesión emitida, con la forma de una respuesta de token
// OAuth. access_token es el JWT de sesión.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// MeResponse: la sesión vigente más el progreso acumulado.
type MeResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Grade       string    `json:"grade,omitempty"`
	Role        string    `json:"role"`
	Points      int       `json:"points"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserInfoResponse: identidad normalizada del proveedor.
type UserInfoResponse struct {
	ExternalID  string `json:"external_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Grade       string `json:"grade"`
	Active      bool   `json:"active"`
}
