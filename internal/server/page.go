package server

const formPage = `<!DOCTYPE html>
<html>
<head>
    <title>Legal Document Q&amp;A</title>
</head>
<body>
    <h2>Upload Legal Document (.pdf, .docx, .eml) and Ask Questions</h2>
    <form action="/ask" method="post" enctype="multipart/form-data">
        <label for="file">Upload Document:</label><br>
        <input type="file" id="file" name="file" accept=".pdf,.docx,.eml" required><br><br>

        <label for="question">Questions (one per line):</label><br>
        <textarea id="question" name="question" rows="10" cols="80" placeholder="Write each question on a new line..." required></textarea><br><br>

        <label for="strategy">Strategy:</label>
        <select id="strategy" name="strategy">
            <option value="">default</option>
            <option value="chunked">retrieve per question</option>
            <option value="whole">whole document</option>
        </select><br><br>

        <input type="submit" value="Ask">
    </form>
</body>
</html>
`

const resultPageHead = `<!DOCTYPE html>
<html>
<head>
    <title>Legal Document Q&amp;A</title>
</head>
<body>
`

const resultPageTail = `<br><a href="/">Ask More Questions</a>
</body>
</html>
`
