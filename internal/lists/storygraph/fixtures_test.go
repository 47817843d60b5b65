package storygraph

// Rendered https://app.thestorygraph.com/to-read/<user> as returned by the
// proxy, trimmed to three panes. Each pane carries the book id on the outer
// div and again on the nested action button; the first book is also
// repeated by the mobile layout further down.
const shelfFixture = `<!DOCTYPE html>
<html lang="en">
<head><title>Jane's To-Read Pile | The StoryGraph</title></head>
<body>
<nav><a href="/">Home</a><a href="/browse">Browse</a></nav>
<main>
<div class="to-read-books">
  <div class="book-pane" data-book-id="8f6c2d1e-3b7a-4e51-9c0d-2a4b6e8f1a3c">
    <div class="book-pane-content grid grid-cols-10">
      <div class="cover-image-column col-span-3">
        <a href="/books/8f6c2d1e-3b7a-4e51-9c0d-2a4b6e8f1a3c"><img alt="The Final Empire by Brandon Sanderson" class="rounded-sm" src="https://cdn.thestorygraph.com/covers/final-empire.jpg" /></a>
      </div>
      <div class="book-title-author-and-series col-span-7">
        <h3 class="font-bold text-xl">
          <a href="/books/8f6c2d1e-3b7a-4e51-9c0d-2a4b6e8f1a3c">The Final Empire</a>
        </h3>
        <p class="font-medium text-sm"><a href="/series/1203">Mistborn</a> <a href="/series/1203">#1</a></p>
        <p class="font-body mb-1"><a href="/authors/5c1a">Brandon Sanderson</a></p>
        <p class="text-xs font-light">541 pages &bull; first pub 2006</p>
      </div>
      <div class="action-buttons"><button data-book-id="8f6c2d1e-3b7a-4e51-9c0d-2a4b6e8f1a3c">Remove</button></div>
    </div>
  </div>
  <div class="book-pane" data-book-id="b2c4e6a8-1d3f-4a5b-8c7d-9e0f1a2b3c4d">
    <div class="book-pane-content grid grid-cols-10">
      <div class="cover-image-column col-span-3">
        <a href="/books/b2c4e6a8-1d3f-4a5b-8c7d-9e0f1a2b3c4d"><img alt="Good Omens" src="https://cdn.thestorygraph.com/covers/good-omens.jpg" /></a>
      </div>
      <div class="book-title-author-and-series col-span-7">
        <h3 class="font-bold text-xl">
          <a href="/books/b2c4e6a8-1d3f-4a5b-8c7d-9e0f1a2b3c4d">Good Omens: The Nice &amp; Accurate Prophecies</a>
        </h3>
        <p class="font-body mb-1"><a href="/authors/aa1">Terry Pratchett</a> and <a href="/authors/bb2">Neil Gaiman</a></p>
        <p class="text-xs font-light">1,024 pages &bull; first pub 1990</p>
      </div>
      <div class="action-buttons"><button data-book-id="b2c4e6a8-1d3f-4a5b-8c7d-9e0f1a2b3c4d">Remove</button></div>
    </div>
  </div>
  <div class="book-pane" data-book-id="c0ffee00-0000-4000-8000-000000000001">
    <div class="book-pane-content">
      <h3 class="font-bold text-xl"><a href="/books/c0ffee00-0000-4000-8000-000000000001">Leviathan Wakes (The Expanse #1)</a></h3>
      <p class="font-body mb-1"><a href="/authors/cc3">James S. A. Corey</a></p>
    </div>
  </div>
</div>
<div class="mobile-only">
  <div class="book-pane" data-book-id="8f6c2d1e-3b7a-4e51-9c0d-2a4b6e8f1a3c">
    <h3 class="font-bold"><a href="/books/8f6c2d1e-3b7a-4e51-9c0d-2a4b6e8f1a3c">The Final Empire</a></h3>
  </div>
</div>
</main>
</body>
</html>`

// An older layout without per-pane ids, which only the loose pass handles.
const looseFixture = `<html><body>
<ul class="books">
  <li>
    <a href="/books/11111111-aaaa-4bbb-8ccc-000000000001"><img src="https://cdn.thestorygraph.com/covers/dune.jpg" alt=""></a>
    <a class="title" href="/books/11111111-aaaa-4bbb-8ccc-000000000001">Dune</a>
    <span>by <a href="/authors/x1">Frank Herbert</a></span>
  </li>
  <li>
    <a href="/books/22222222-aaaa-4bbb-8ccc-000000000002"><img src="https://cdn.thestorygraph.com/covers/hyperion.jpg" alt=""></a>
    <a class="title" href="/books/22222222-aaaa-4bbb-8ccc-000000000002">Hyperion</a>
    <span>by <a href="/authors/x2">Dan Simmons</a></span>
  </li>
  <li>
    <a class="title" href="/books/11111111-aaaa-4bbb-8ccc-000000000001">Dune</a>
  </li>
</ul>
</body></html>`

const emptyShelfFixture = `<html><head><title>Jane's To-Read Pile | The StoryGraph</title></head>
<body><main><p>This pile is empty.</p></main></body></html>`

const notFoundFixture = `<html><head><title>Page not found | The StoryGraph</title></head>
<body><h1>The page you were looking for doesn't exist.</h1></body></html>`

const signInFixture = `<html><head><title>Sign in | The StoryGraph</title></head>
<body><form class="new_user" id="new_user" action="/users/sign_in" method="post"><input type="email" name="user[email]"></form></body></html>`
