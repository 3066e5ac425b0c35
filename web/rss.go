package web

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"

	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/util"
)

// baseURL prefers the public ssl domain when one is configured.
func baseURL(conf *util.AppConfig) string {
	if conf.Conf.SslDomain != "" && conf.Conf.SslDomain != "localhost" {
		return fmt.Sprintf("https://%s", conf.Conf.SslDomain)
	}
	return fmt.Sprintf("http://%s:%d", conf.Conf.Host, conf.Conf.HttpPort)
}

// GetRSS renders the public feed as RSS, either the whole timeline or a
// single author's posts.
func GetRSS(conf *util.AppConfig, graph *store.SocialGraph, feed *store.Feed, authorId *uuid.UUID) (string, error) {

	var posts []domain.Post
	var title string
	var createdBy string

	link := fmt.Sprintf("%s/feed", baseURL(conf))

	if authorId != nil {
		_, author := graph.ReadUserById(*authorId)
		if author == nil {
			log.Printf("Could not get posts, unknown author %s", authorId)
			return "", errors.New("error retrieving posts by author")
		}
		posts = feed.ReadPostsByAuthor(*authorId)
		title = fmt.Sprintf("Mingle Posts - %s", author.Name)
		createdBy = author.Name
		link = fmt.Sprintf("%s?author=%s", link, authorId)
	} else {
		posts = feed.ReadPosts()
		title = "All Mingle Posts"
		createdBy = "everyone"
	}

	rss := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: "what your friends are up to on mingle",
		Author:      &feeds.Author{Name: createdBy, Email: fmt.Sprintf("%s@mingle", createdBy)},
		Created:     time.Now(),
	}

	var feedItems []*feeds.Item
	for _, post := range posts {
		name := "someone"
		if _, author := graph.ReadUserById(post.AuthorId); author != nil {
			name = author.Name
		}
		feedItems = append(feedItems,
			&feeds.Item{
				Id:      post.Id.String(),
				Title:   post.CreatedAt.Format(util.DateTimeFormat()),
				Link:    &feeds.Link{Href: fmt.Sprintf("%s/feed/%s", baseURL(conf), post.Id)},
				Content: post.Content,
				Author:  &feeds.Author{Name: name, Email: fmt.Sprintf("%s@mingle", name)},
				Created: post.CreatedAt,
			})
	}

	rss.Items = feedItems
	return rss.ToRss()
}

// GetRSSItem renders a single post as a one-item RSS feed.
func GetRSSItem(conf *util.AppConfig, graph *store.SocialGraph, feed *store.Feed, id uuid.UUID) (string, error) {
	err, post := feed.ReadPostById(id)
	if err != nil || post == nil {
		log.Println("Could not get post!", err)
		return "", errors.New("error retrieving post by id")
	}

	name := "someone"
	if _, author := graph.ReadUserById(post.AuthorId); author != nil {
		name = author.Name
	}
	email := fmt.Sprintf("%s@mingle", name)
	url := fmt.Sprintf("%s/feed/%s", baseURL(conf), post.Id)

	rss := &feeds.Feed{
		Title:       "Single Mingle Post",
		Link:        &feeds.Link{Href: url},
		Description: "what your friends are up to on mingle",
		Author:      &feeds.Author{Name: name, Email: email},
		Created:     time.Now(),
	}

	rss.Items = []*feeds.Item{
		{
			Id:      post.Id.String(),
			Title:   post.CreatedAt.Format(util.DateTimeFormat()),
			Link:    &feeds.Link{Href: url},
			Content: post.Content,
			Author:  &feeds.Author{Name: name, Email: email},
			Created: post.CreatedAt,
		},
	}

	return rss.ToRss()
}
