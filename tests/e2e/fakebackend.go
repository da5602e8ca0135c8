//go:build e2e

package e2e

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeVoucher struct {
	ID        int     `json:"id"`
	Code      string  `json:"code"`
	Status    string  `json:"status"`
	Duration  string  `json:"duration"`
	DataLimit string  `json:"data_limit"`
	CreatedAt string  `json:"created_at"`
	UsedAt    *string `json:"used_at"`
	ExpiresAt *string `json:"expires_at"`
}

// FakeBackend is an in-memory voucher backend speaking the same REST dialect as the real one.
type FakeBackend struct {
	server *httptest.Server

	mu           sync.Mutex
	vouchers     []fakeVoucher
	nextID       int
	failDelete   map[string]bool
	partialLimit int
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	b := &FakeBackend{}
	b.Reset()

	r := gin.New()
	r.GET("/api/vouchers/", b.list)
	r.POST("/api/vouchers/", b.generate)
	r.GET("/api/vouchers/stats/", b.stats)
	r.GET("/api/vouchers/activity/", b.activity)
	r.GET("/api/vouchers/export/", b.export)
	r.PATCH("/api/vouchers/:id/", b.update)
	r.DELETE("/api/vouchers/:id/", b.delete)

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

func (b *FakeBackend) URL() string {
	return b.server.URL
}

// Reset restores the seeded vouchers: one of each status except pending.
func (b *FakeBackend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC).Format(time.RFC3339)
	used := time.Now().Add(-30 * time.Minute).UTC().Format(time.RFC3339)
	expires := time.Now().Add(30 * time.Minute).UTC().Format(time.RFC3339)
	b.vouchers = []fakeVoucher{
		{ID: 1, Code: "ACTIVE01", Status: "active", Duration: "1h", DataLimit: "1gb", CreatedAt: created},
		{ID: 2, Code: "USED0002", Status: "used", Duration: "1h", DataLimit: "1gb", CreatedAt: created, UsedAt: &used, ExpiresAt: &expires},
		{ID: 3, Code: "DISABLED", Status: "disabled", Duration: "24h", DataLimit: "5gb", CreatedAt: created},
		{ID: 4, Code: "EXPIRED4", Status: "expired", Duration: "30m", DataLimit: "100mb", CreatedAt: created},
	}
	b.nextID = SeededVoucherCount + 1
	b.failDelete = map[string]bool{}
	b.partialLimit = 0
}

// FailDelete makes deletes of id answer 500.
func (b *FakeBackend) FailDelete(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failDelete[id] = true
}

// CreateAtMost makes the next generations stop after n codes and answer 400 with the partial batch.
func (b *FakeBackend) CreateAtMost(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.partialLimit = n
}

func (b *FakeBackend) Status(id string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(id); i >= 0 {
		return b.vouchers[i].Status, true
	}
	return "", false
}

func (b *FakeBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.vouchers)
}

func (b *FakeBackend) indexLocked(id string) int {
	return slices.IndexFunc(b.vouchers, func(v fakeVoucher) bool { return strconv.Itoa(v.ID) == id })
}

func (b *FakeBackend) list(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, b.vouchers)
}

func (b *FakeBackend) stats(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	active, used := 0, 0
	for _, v := range b.vouchers {
		switch v.Status {
		case "active":
			active++
		case "used":
			used++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"total":        len(b.vouchers),
		"active":       active,
		"used_today":   used,
		"success_rate": fmt.Sprintf("%.1f%%", float64(used)*100/float64(max(len(b.vouchers), 1))),
	})
}

func (b *FakeBackend) activity(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{"code": "USED0002", "status": "used", "time": "2024-05-01 10:00"},
		{"code": "ACTIVE01", "status": "generated", "time": "2024-05-01 09:00"},
	})
}

func (b *FakeBackend) export(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := []string{"code,status"}
	for _, v := range b.vouchers {
		lines = append(lines, v.Code+","+v.Status)
	}
	c.Data(http.StatusOK, "text/csv", []byte(strings.Join(lines, "\n")+"\n"))
}

func (b *FakeBackend) generate(c *gin.Context) {
	var req struct {
		Quantity  string `json:"quantity"`
		Duration  string `json:"duration"`
		DataLimit string `json:"data_limit"`
		ExpiresAt string `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	n, err := strconv.Atoi(req.Quantity)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"quantity": "invalid"}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	limit := n
	if b.partialLimit > 0 {
		limit = min(n, b.partialLimit)
	}
	created := make([]gin.H, 0, limit)
	for range limit {
		v := fakeVoucher{
			ID:        b.nextID,
			Code:      fmt.Sprintf("GEN%05d", b.nextID),
			Status:    "active",
			Duration:  req.Duration,
			DataLimit: req.DataLimit,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		b.nextID++
		b.vouchers = append(b.vouchers, v)
		created = append(created, gin.H{"id": v.ID, "code": v.Code})
	}
	if limit < n {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"quantity": "code pool exhausted"}, "created": created})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (b *FakeBackend) update(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	b.vouchers[i].Status = req.Status
	c.JSON(http.StatusOK, b.vouchers[i])
}

func (b *FakeBackend) delete(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := c.Param("id")
	if b.failDelete[id] {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "delete failed"})
		return
	}
	i := b.indexLocked(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	b.vouchers = slices.Delete(b.vouchers, i, i+1)
	c.Status(http.StatusNoContent)
}
