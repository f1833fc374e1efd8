package pagination

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Params 由 page/size 计算出的查询窗口
type Params struct {
	Offset      int
	Limit       int
	CurrentPage int
}

// Links 分页链接，边界处为 null
type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Meta 分页元数据
type Meta struct {
	CurrentPage int    `json:"current_page"`
	From        int    `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          int    `json:"to"`
	Total       int64  `json:"total"`
}

// Envelope 列表接口的 links + meta
type Envelope struct {
	Links Links `json:"links"`
	Meta  Meta  `json:"meta"`
}

const (
	// MaxPageSize size 上限
	MaxPageSize = 100
	// MaxPage page 上限，保证 (page-1)*size 不溢出
	MaxPage = 1_000_000
)

// Paginate 将 page/size 规整为 ≥1 的整数并计算 offset。
// 非数字、0 或负数一律按 1 处理；超出上限按上限处理。
func Paginate(page, size string) Params {
	p := clamp(page, MaxPage)
	s := clamp(size, MaxPageSize)
	return Params{
		Offset:      (p - 1) * s,
		Limit:       s,
		CurrentPage: p,
	}
}

// Construct 根据总数与查询窗口构建 links/meta。纯函数。
func Construct(count int64, p Params, baseURL string) Envelope {
	limit := p.Limit
	if limit < 1 {
		limit = 1
	}
	lastPage := int(math.Ceil(float64(count) / float64(limit)))

	to := int64(p.Offset) + int64(limit)
	if to > count {
		to = count
	}
	from := 0
	if count > 0 && int64(p.Offset) < count {
		from = p.Offset + 1
	}

	links := Links{
		First: pageURL(baseURL, 1, limit),
		Last:  pageURL(baseURL, maxInt(lastPage, 1), limit),
	}
	if p.CurrentPage > 1 {
		prev := pageURL(baseURL, p.CurrentPage-1, limit)
		links.Prev = &prev
	}
	if p.CurrentPage < lastPage {
		next := pageURL(baseURL, p.CurrentPage+1, limit)
		links.Next = &next
	}

	return Envelope{
		Links: links,
		Meta: Meta{
			CurrentPage: p.CurrentPage,
			From:        from,
			LastPage:    lastPage,
			Path:        baseURL,
			PerPage:     limit,
			To:          int(to),
			Total:       count,
		},
	}
}

func clamp(raw string, max int) int {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// 超出 int64 的正数
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return max
		}
		return 1
	}
	if n < 1 {
		return 1
	}
	if n > int64(max) {
		return max
	}
	return int(n)
}

func pageURL(baseURL string, page, size int) string {
	return fmt.Sprintf("%s?page=%d&size=%d", baseURL, page, size)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
