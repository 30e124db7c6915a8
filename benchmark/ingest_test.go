package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/hostwatch/pkg/audit"
	"github.com/doodlesbykumbi/hostwatch/pkg/config"
	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/model"
	"github.com/doodlesbykumbi/hostwatch/pkg/sealer"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/endpoints"
	badgerstore "github.com/doodlesbykumbi/hostwatch/pkg/server/store/badger"
	"github.com/doodlesbykumbi/hostwatch/pkg/session"
	"github.com/doodlesbykumbi/hostwatch/pkg/signature"
)

func setup(b *testing.B) (http.Handler, *fleet.EnrollResult) {
	b.Helper()
	audit.DefaultLogger.SetWriter(io.Discard)
	b.Setenv("HOSTWATCH_CONFIG_PATH", b.TempDir())

	cipher, _ := sealer.New(make([]byte, sealer.KeySize))
	st, err := badgerstore.Open(badgerstore.Options{InMemory: true}, cipher)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	svc := fleet.NewService(st, st, fleet.WithBcryptCost(bcrypt.MinCost))
	owner, err := svc.CreateOwner(ctx, "bench@example.com", "bench")
	if err != nil {
		b.Fatal(err)
	}
	res, err := svc.Enroll(ctx, fleet.EnrollRequest{Hostname: "web1", Username: "root", IP: "10.0.0.5", InstallToken: owner.InstallToken})
	if err != nil {
		b.Fatal(err)
	}

	cfg, _ := config.Load()
	sessions, _ := session.NewManager([]byte(strings.Repeat("b", session.MinKeySize)), time.Hour)
	srv, err := server.NewServer(svc, sessions, st, cfg, nil, "127.0.0.1", "0")
	if err != nil {
		b.Fatal(err)
	}
	endpoints.RegisterAll(srv)
	return srv.Router, res
}

func snapshotBody(cores int) []byte {
	snap := model.Snapshot{Timestamp: time.Now().Unix()}
	for i := 0; i < cores; i++ {
		snap.CPU.PerCore = append(snap.CPU.PerCore, float64(i))
	}
	snap.CPU.Cores = cores
	body, _ := json.Marshal(snap)
	return body
}

func BenchmarkIngestHandler(b *testing.B) {
	handler, res := setup(b)

	for _, cores := range []int{4, 64} {
		body := snapshotBody(cores)
		sig := signature.Sign([]byte(res.SecretKey), body)

		b.Run(fmt.Sprintf("POST /api/metrics cores=%d", cores), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				r := httptest.NewRequest(http.MethodPost, "/api/metrics", bytes.NewReader(body))
				r.Header.Set(signature.ServerIDHeader, res.ServerID)
				r.Header.Set(signature.Header, sig)
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, r)
				if w.Code != http.StatusOK {
					b.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
				}
			}
		})
	}

	b.Run("POST /api/metrics bad signature", func(b *testing.B) {
		body := snapshotBody(4)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r := httptest.NewRequest(http.MethodPost, "/api/metrics", bytes.NewReader(body))
			r.Header.Set(signature.ServerIDHeader, res.ServerID)
			r.Header.Set(signature.Header, strings.Repeat("0", 64))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
		}
	})
}

func BenchmarkIngestParallel(b *testing.B) {
	handler, res := setup(b)
	body := snapshotBody(8)
	sig := signature.Sign([]byte(res.SecretKey), body)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r := httptest.NewRequest(http.MethodPost, "/api/metrics", bytes.NewReader(body))
			r.Header.Set(signature.ServerIDHeader, res.ServerID)
			r.Header.Set(signature.Header, sig)
			handler.ServeHTTP(httptest.NewRecorder(), r)
		}
	})
}
