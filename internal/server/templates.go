package server

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Chat with your PDFs</title>
<style>
body {
    margin: 0; font-family: sans-serif; background-color: #0e1117; color: #fafafa;
    display: flex; min-height: 100vh;
}
.sidebar {
    width: 300px; padding: 1.5rem; background-color: #262730;
}
.main {
    flex: 1; padding: 1.5rem 2rem; max-width: 860px;
}
.status { padding: 0.75rem 1rem; border-radius: 0.5rem; margin-bottom: 1rem; background-color: #173928 }
.warning { padding: 0.75rem 1rem; border-radius: 0.5rem; margin-bottom: 1rem; background-color: #5c4418 }
.preview {
    background-color: #1c1f26; padding: 1rem; border-radius: 0.5rem;
    white-space: pre-wrap; font-family: monospace; font-size: 0.8rem;
    max-height: 16rem; overflow-y: auto;
}
.chat-message {
    padding: 1rem; border-radius: 0.5rem; margin-bottom: 1rem; display: flex
}
.chat-message.user {
    background-color: #2b313e
}
.chat-message.bot {
    background-color: #475063
}
.chat-message .message {
    width: 100%; padding: 0 1.5rem; color: #fff;
}
input[type=text] {
    width: 70%; padding: 0.5rem; border-radius: 0.25rem; border: 1px solid #4b4f5a;
    background-color: #1c1f26; color: #fafafa;
}
button { padding: 0.5rem 1.25rem; border-radius: 0.25rem; border: none; cursor: pointer; }
</style>
</head>
<body>
<div class="sidebar">
    <h3>Your documents</h3>
    <form action="/process" method="post" enctype="multipart/form-data">
        <p><input type="file" name="documents" multiple></p>
        <button type="submit">Process</button>
    </form>
    {{if .Preview}}
    <h4>Extracted Text Preview</h4>
    <div class="preview">{{.Preview}}</div>
    {{end}}
</div>
<div class="main">
    <h2>Chat with multiple PDFs &#128218;</h2>
    {{if .Status}}<div class="status">{{.Status}}</div>{{end}}
    {{if .Warning}}<div class="warning">{{.Warning}}</div>{{end}}
    <form action="/ask" method="post">
        <input type="text" name="question" placeholder="Ask a question about your documents:"{{if not .Ready}} disabled{{end}}>
        <button type="submit"{{if not .Ready}} disabled{{end}}>Ask</button>
    </form>
    {{range .Transcript}}
    <div class="chat-message {{.Role}}">
        <div class="message">{{.Body}}</div>
    </div>
    {{end}}
</div>
</body>
</html>
`
