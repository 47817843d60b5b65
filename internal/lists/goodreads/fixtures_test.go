package goodreads

import (
	"fmt"
	"strings"
)

// Captured from https://www.goodreads.com/review/list_rss/<id>?shelf=to-read
// and trimmed to two items. The second item has no book_id element.
const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
<channel>
  <xhtml:meta xmlns:xhtml="http://www.w3.org/1999/xhtml" name="robots" content="noindex" />
  <title>Jane's bookshelf: to-read</title>
  <copyright><![CDATA[Copyright (C) 2024 Goodreads Inc. All rights reserved.]]></copyright>
  <link><![CDATA[https://www.goodreads.com/review/list_rss/12345?shelf=to-read]]></link>
  <item>
    <guid><![CDATA[https://www.goodreads.com/review/show/5551?utm_medium=api&utm_source=rss]]></guid>
    <pubDate><![CDATA[Mon, 15 Jan 2024 09:30:00 -0800]]></pubDate>
    <title>The Final Empire (Mistborn, #1)</title>
    <link><![CDATA[https://www.goodreads.com/review/show/5551?utm_medium=api&utm_source=rss]]></link>
    <book_id>68428</book_id>
    <book_image_url><![CDATA[https://i.gr-assets.com/images/S/68428._SY75_.jpg]]></book_image_url>
    <book_large_image_url><![CDATA[https://i.gr-assets.com/images/S/68428._SY475_.jpg]]></book_large_image_url>
    <book_description><![CDATA[For a thousand years the ash fell &amp; no flowers bloomed.<br /><br />Kelsier &hellip; plans.]]></book_description>
    <book id="68428">
      <num_pages>541</num_pages>
    </book>
    <author_name>Brandon  Sanderson</author_name>
    <isbn>0765311780</isbn>
    <user_name>Jane</user_name>
    <user_rating>0</user_rating>
    <user_date_added><![CDATA[Mon, 15 Jan 2024 09:30:00 -0800]]></user_date_added>
    <user_shelves>to-read</user_shelves>
    <average_rating>4.46</average_rating>
    <book_published>2006</book_published>
    <description><![CDATA[<a href="https://www.goodreads.com/book/show/68428.The_Final_Empire">cover</a>]]></description>
  </item>
  <item>
    <guid><![CDATA[https://www.goodreads.com/review/show/5552?utm_medium=api&utm_source=rss]]></guid>
    <title><![CDATA[Caf&eacute; &amp; Conversation]]></title>
    <link><![CDATA[https://www.goodreads.com/review/show/5552?utm_medium=api&utm_source=rss]]></link>
    <book_image_url><![CDATA[https://s.gr-assets.com/assets/nophoto/book/111x148.png]]></book_image_url>
    <book_description></book_description>
    <author_name>Ana &#211;lafsd&oacute;ttir &unknownentity;</author_name>
    <isbn></isbn>
    <average_rating>3.90</average_rating>
    <book_published></book_published>
    <description><![CDATA[<a href="https://www.goodreads.com/book/show/777.Cafe"><img src="x"></a>]]></description>
  </item>
</channel>
</rss>`

const emptyFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Jane's bookshelf: to-read</title></channel></rss>`

const signInFixture = `<!DOCTYPE html><html><head><title>Sign in | Goodreads</title></head>
<body><form action="/user/sign_in" method="post"></form></body></html>`

// Shelf sidebar from https://www.goodreads.com/review/list/<id>.
const shelfPageFixture = `<!DOCTYPE html><html><body>
<div id="paginatedShelfList">
  <div class="userShelf"><a class="actionLinkLite" href="/review/list/12345-jane?shelf=%23ALL%23">All (120)</a></div>
  <div class="userShelf"><a class="actionLinkLite" href="/review/list/12345-jane?shelf=read">Read  (80)</a></div>
  <div class="userShelf"><a class="actionLinkLite" href="/review/list/12345-jane?shelf=to-read">Want to Read  (35)</a></div>
  <div class="userShelf"><a class="actionLinkLite" href="/review/list/12345-jane?shelf=favorites">favorites  (12)</a></div>
  <div class="userShelf"><a class="actionLinkLite" href="/review/list/12345-jane?shelf=sci-fi">sci &amp;amp; fi (1,204)</a></div>
  <div class="userShelf"><a class="actionLinkLite" href="/review/list/12345-jane?shelf=favorites">favorites (12)</a></div>
</div>
<a href="/shelf/show/fantasy?shelf=ignored">Popular shelf</a>
</body></html>`

func fullFeed(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "<item><title>Book %d</title><book_id>%d</book_id><author_name>Author %d</author_name></item>", i, i, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}
