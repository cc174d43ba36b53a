package http

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Yuji-2251/expert-assistant/domain"
)

// Page serves the single-page chat form. Personas are rendered server-side;
// a small script handles the token, the chat call, and the history panel.
func (h *ChatHandler) Page(c echo.Context) error {
	all := domain.Personas()
	personas := make([]PersonaInfo, len(all))
	for i, p := range all {
		personas[i] = PersonaInfo{
			ID:          string(p),
			DisplayName: domain.DisplayName(p),
			Description: domain.Description(p),
		}
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return pageTemplate.Execute(c.Response(), map[string]interface{}{
		"Personas": personas,
	})
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Expert AI Assistant</title>
<style>
  body { font-family: sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  fieldset { border: 1px solid #ccc; border-radius: 6px; margin-bottom: 1rem; }
  label { display: block; margin: 0.3rem 0; }
  small { color: #666; }
  textarea { width: 100%; height: 8rem; margin-bottom: 0.5rem; }
  button { padding: 0.5rem 1.2rem; cursor: pointer; }
  #answer, .exchange { border: 1px solid #ddd; border-radius: 6px; padding: 0.8rem; margin-top: 1rem; white-space: pre-wrap; }
  .error { color: #a00; }
  .exchange .q { font-weight: bold; }
</style>
</head>
<body>
<h1>Expert AI Assistant</h1>
<p>Pick an expert, ask a question, and get an answer tailored to that field.</p>

<fieldset>
  <legend>Expert</legend>
  {{range $i, $p := .Personas}}
  <label>
    <input type="radio" name="persona" value="{{$p.ID}}" {{if eq $i 0}}checked{{end}}>
    {{$p.DisplayName}} — <small>{{$p.Description}}</small>
  </label>
  {{end}}
</fieldset>

<textarea id="message" placeholder="e.g. What is an efficient way to sort a list?"></textarea>
<button id="ask">Get answer</button>
<button id="clear">Clear history</button>

<div id="answer" hidden></div>

<details id="historyBox" hidden>
  <summary>Recent exchanges</summary>
  <div id="history"></div>
</details>

<script>
let token = null;

async function getToken() {
  if (token) return token;
  const res = await fetch('/api/v1/auth/token', { method: 'POST' });
  token = (await res.json()).token;
  return token;
}

async function api(path, opts = {}) {
  opts.headers = Object.assign({}, opts.headers, {
    'Authorization': 'Bearer ' + await getToken(),
    'Content-Type': 'application/json',
  });
  return fetch(path, opts);
}

async function refreshHistory() {
  const res = await api('/api/v1/history');
  const data = await res.json();
  const box = document.getElementById('historyBox');
  const hist = document.getElementById('history');
  hist.innerHTML = '';
  for (const ex of data.exchanges) {
    const div = document.createElement('div');
    div.className = 'exchange';
    const q = document.createElement('div');
    q.className = 'q';
    q.textContent = '[' + ex.persona + '] ' + ex.question;
    const a = document.createElement('div');
    a.textContent = ex.answer;
    div.append(q, a);
    hist.appendChild(div);
  }
  box.hidden = data.exchanges.length === 0;
}

document.getElementById('ask').addEventListener('click', async () => {
  const message = document.getElementById('message').value;
  const persona = document.querySelector('input[name=persona]:checked').value;
  const answer = document.getElementById('answer');
  answer.hidden = false;
  answer.classList.remove('error');
  answer.textContent = 'Thinking...';

  const res = await api('/api/v1/chat', {
    method: 'POST',
    body: JSON.stringify({ persona: persona, message: message }),
  });
  if (!res.ok) {
    answer.classList.add('error');
    answer.textContent = (await res.json()).message || 'Request failed';
    return;
  }
  const data = await res.json();
  if (data.error) {
    answer.classList.add('error');
    answer.textContent = data.error;
  } else {
    answer.textContent = data.answer;
    refreshHistory();
  }
});

document.getElementById('clear').addEventListener('click', async () => {
  await api('/api/v1/history', { method: 'DELETE' });
  refreshHistory();
});
</script>
</body>
</html>
`))
