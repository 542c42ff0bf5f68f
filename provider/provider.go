// Package provider implements the translation backends used by srctl.
package provider

import "github.com/ZaguanLabs/srctl"

// Provider is an alias to the main package interface for convenience.
type Provider = srctl.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = srctl.TranslateRequest
