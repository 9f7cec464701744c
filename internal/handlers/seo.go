package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"blogicum/internal/repository"
	"blogicum/internal/utils"
	"blogicum/internal/visibility"

	"github.com/gin-gonic/gin"
)

const (
	sitemapLimit = 500
	feedLimit    = 20
)

type SEOHandler struct {
	*Env
}

func NewSEOHandler(env *Env) *SEOHandler {
	return &SEOHandler{Env: env}
}

// RobotsTxt 返回robots.txt内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 禁止爬取账户与编辑页面
Disallow: /auth/
Disallow: /edit_profile/
Disallow: /posts/create/
Disallow: /metrics

Sitemap: %s/sitemap.xml
`, h.SiteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML lists the home page, published categories and the newest public posts.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.Now()

	categories, err := h.Categories.ListPublished(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.Posts.List(ctx, repository.Listing{
		Rule:     visibility.Public(now),
		PageSize: sitemapLimit,
	}, 1)
	if err != nil {
		h.fail(c, err)
		return
	}

	set := urlSet{URLs: []sitemapURL{{
		Loc:        h.SiteURL + "/",
		LastMod:    now.UTC().Format("2006-01-02"),
		ChangeFreq: "daily",
		Priority:   1.0,
	}}}
	for _, cat := range categories {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.SiteURL + "/category/" + cat.Slug + "/",
			ChangeFreq: "daily",
			Priority:   0.7,
		})
	}
	for _, post := range res.Posts {
		// 根据文章新旧程度调整优先级
		priority, changefreq := 0.6, "weekly"
		if now.Sub(post.PubDate) < 7*24*time.Hour {
			priority, changefreq = 0.8, "daily"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.SiteURL + postURL(post.ID),
			LastMod:    post.PubDate.UTC().Format("2006-01-02"),
			ChangeFreq: changefreq,
			Priority:   priority,
		})
	}

	c.XML(http.StatusOK, set)
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description cdata   `xml:"description"`
	Author      string  `xml:"author,omitempty"`
	Category    string  `xml:"category,omitempty"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// RSSFeed 生成最新公开文章的 RSS 2.0 订阅源
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	now := h.Now()
	res, err := h.Posts.List(c.Request.Context(), repository.Listing{
		Rule:     visibility.Public(now),
		PageSize: feedLimit,
	}, 1)
	if err != nil {
		h.fail(c, err)
		return
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:         h.SiteName,
			Link:          h.SiteURL + "/",
			Description:   "Новые публикации " + h.SiteName,
			Language:      "ru",
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
		},
	}
	for _, post := range res.Posts {
		link := h.SiteURL + postURL(post.ID)
		item := rssItem{
			Title:       post.Title,
			Link:        link,
			Description: cdata{Value: string(utils.RenderMarkdown(post.Text))},
			Author:      post.Author.Username,
			PubDate:     post.PubDate.UTC().Format(time.RFC1123Z),
			GUID:        rssGUID{Value: link, IsPermaLink: true},
		}
		if post.Category != nil {
			item.Category = post.Category.Title
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.XML(http.StatusOK, feed)
}
