package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/squidgame/squid-ops/internal/chain"
	"github.com/squidgame/squid-ops/internal/registry"
	"go.uber.org/zap"
)

type Server struct {
	registry *registry.Registry
	chain    chain.Service
}

func NewServer(registry *registry.Registry, chain chain.Service) Server {
	return Server{registry, chain}
}

type proxyResponse struct {
	Proxy          string `json:"proxy"`
	Implementation string `json:"implementation"`
	Admin          string `json:"admin,omitempty"`
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/registry", s.handleRegistry).Methods("GET")
	r.HandleFunc("/registry/{file}", s.handleRegistryFile).Methods("GET")
	r.HandleFunc("/implementation/{proxy}", s.handleImplementation).Methods("GET")
	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "ok")
}

func (s Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	files, err := s.registry.Files(r.Context())
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Registry not available")
		http.Error(w, "Registry not available", http.StatusInternalServerError)
		return
	}

	records := make(map[string]*registry.Record, len(files))
	for _, file := range files {
		rec, err := s.registry.Load(r.Context(), file)
		if err != nil {
			zap.L().With(zap.String("file", file), zap.Error(err)).Error("Registry file not available")
			http.Error(w, "Registry file not available", http.StatusInternalServerError)
			return
		}
		records[file] = rec
	}

	writeJSON(w, records)
}

func (s Server) handleRegistryFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if !registry.IsRegistryFile(file) {
		http.Error(w, "Unknown registry file", http.StatusNotFound)
		return
	}

	rec, err := s.registry.Load(r.Context(), file)
	if errors.Is(err, registry.ErrNotFound) {
		http.Error(w, "Registry file not written", http.StatusNotFound)
		return
	}
	if err != nil {
		zap.L().With(zap.String("file", file), zap.Error(err)).Error("Registry file not available")
		http.Error(w, "Registry file not available", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rec)
}

func (s Server) handleImplementation(w http.ResponseWriter, r *http.Request) {
	proxy, ok := mux.Vars(r)["proxy"]
	if !ok || !common.IsHexAddress(proxy) {
		http.Error(w, "Invalid proxy address", http.StatusBadRequest)
		return
	}
	address := common.HexToAddress(proxy)

	impl, err := s.chain.ImplementationAddress(r.Context(), address)
	if errors.Is(err, chain.ErrNotProxy) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		zap.L().With(zap.String("proxy", address.Hex()), zap.Error(err)).Warn("Implementation slot not readable")
		http.Error(w, "Implementation slot not readable", http.StatusBadGateway)
		return
	}

	resp := proxyResponse{Proxy: address.Hex(), Implementation: impl.Hex()}
	// UUPS proxies leave the admin slot empty.
	if admin, err := s.chain.AdminAddress(r.Context(), address); err == nil {
		resp.Admin = admin.Hex()
	}

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}
