package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var resetPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>Reset Password</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; background: linear-gradient(135deg,#2c3e50,#4a90e2); color: #fff; min-height: 100vh; display: flex; justify-content: center; align-items: center; }
.card { background: #fff; color: #333; padding: 32px; border-radius: 8px; width: 90%; max-width: 420px; box-shadow: 0 10px 40px rgba(0,0,0,0.3); }
input { width: 100%; padding: 10px; margin: 8px 0; border: 1px solid #ccc; border-radius: 4px; box-sizing: border-box; }
button { width: 100%; margin-top: 12px; padding: 12px; font-size: 16px; border: none; border-radius: 4px; cursor: pointer; background: #4a90e2; color: #fff; }
button:hover { background: #357abd; }
.message { margin-top: 12px; font-size: 14px; }
</style>
</head>
<body>
<div class="card">
  <h2>Choose a new password</h2>
  <form onsubmit="return submitReset(event)">
    <input type="password" name="new_password" placeholder="New password" required minlength="8" />
    <input type="password" name="confirm" placeholder="Confirm password" required minlength="8" />
    <button type="submit">Reset password</button>
  </form>
  <div id="message" class="message"></div>
</div>
<script>
const token = new URLSearchParams(window.location.search).get('token') || '';

async function checkToken() {
  if (!token) {
    show('Missing reset token. Use the link from your email.');
    return;
  }
  const response = await fetch('/api/v1/auth/password-reset/validate?token=' + encodeURIComponent(token));
  if (!response.ok) {
    show('This reset link is invalid or has expired. Request a new one.');
  }
}

async function submitReset(event) {
  event.preventDefault();
  const form = new FormData(event.target);
  if (form.get('new_password') !== form.get('confirm')) {
    show('Passwords do not match.');
    return false;
  }
  const response = await fetch('/api/v1/auth/password-reset/confirm', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({ token: token, new_password: form.get('new_password') })
  });
  const data = await response.json();
  if (response.ok) {
    show('Password updated. You can sign in now.');
  } else {
    show(data.error || 'Unable to reset password.');
  }
  return false;
}

function show(text) {
  document.getElementById('message').textContent = text;
}

checkToken();
</script>
</body>
</html>`

func RegisterPages(e *echo.Echo, frontendURL string) {
	e.GET("/", func(c echo.Context) error {
		if frontendURL != "" {
			return c.Redirect(http.StatusTemporaryRedirect, frontendURL)
		}
		return c.HTML(http.StatusOK, "<h1>Identity API</h1><p>See /swagger/index.html for the API reference.</p>")
	})

	// Fallback target for reset links when no frontend is deployed.
	e.GET("/reset-password", func(c echo.Context) error {
		return c.HTML(http.StatusOK, resetPageHTML)
	})
}
