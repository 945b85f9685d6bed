package swagger

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig holds the settings for the rendered swagger UI page.
type SwaggerConfig struct {
	Title         string
	SwaggerDocURL string
	AuthURL       string
}

// swaggerPage renders the swagger UI from the CDN bundle with a login panel
// injected into the authorize dialog. The panel posts staff credentials to
// the login endpoint and pre-authorizes BearerAuth with the issued token, so
// nobody has to paste JWTs by hand while trying out the API.
const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  <style>
    body { margin: 0; background: #f4f6f8; }

    .staff-login { margin-bottom: 16px; }
    .staff-login h4 {
      font: 600 14px -apple-system, "Segoe UI", Roboto, sans-serif;
      color: #2d3b45;
      margin: 0 0 8px;
    }
    .staff-login p {
      font: 12px -apple-system, "Segoe UI", Roboto, sans-serif;
      color: #5c6b77;
      margin: 0 0 12px;
    }
    .staff-login input {
      display: block;
      width: 100%;
      box-sizing: border-box;
      margin: 0 0 10px;
      padding: 8px 10px;
      font-size: 14px;
      color: #2d3b45;
      border: 1px solid #b5bfc9;
      border-radius: 4px;
    }
    .staff-login input:focus {
      outline: none;
      border-color: #1a7f64;
    }
    .staff-login button {
      padding: 8px 18px;
      font: 600 14px -apple-system, "Segoe UI", Roboto, sans-serif;
      color: #fff;
      background: #1a7f64;
      border: none;
      border-radius: 4px;
      cursor: pointer;
    }
    .staff-login button:disabled {
      background: #8aa39b;
      cursor: wait;
    }
    .staff-login .login-status {
      margin: 10px 0 0;
      min-height: 14px;
    }
    .staff-login .login-status.failed { color: #b42318; }
    .staff-login .login-status.ok { color: #1a7f64; }
    .staff-login hr {
      border: none;
      border-top: 1px solid #dde3e8;
      margin: 16px 0 0;
    }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    const loginURL = '{{.AuthURL}}';

    window.onload = () => {
      window.ui = SwaggerUIBundle({
        url: '{{.SwaggerDocURL}}',
        dom_id: '#swagger-ui',
        deepLinking: true,
        presets: [SwaggerUIBundle.presets.apis],
        onComplete: watchAuthorizeDialog,
      });
    };

    // The authorize dialog is created on demand, so the panel is injected
    // each time the dialog opens.
    function watchAuthorizeDialog() {
      document.body.addEventListener('click', (event) => {
        if (event.target.closest('.authorize')) {
          setTimeout(injectLoginPanel, 300);
        }
      });
    }

    function injectLoginPanel() {
      const dialog = document.querySelector('.modal-ux .auth-container');
      if (!dialog || document.querySelector('.staff-login')) {
        return;
      }

      const panel = document.createElement('div');
      panel.className = 'staff-login';
      panel.innerHTML =
        '<h4>Staff login</h4>' +
        '<p>Signs in with a staff account and authorizes every request with the issued token.</p>' +
        '<input id="staff-username" type="text" placeholder="Username" autocomplete="username" />' +
        '<input id="staff-password" type="password" placeholder="Password" autocomplete="current-password" />' +
        '<button id="staff-login-btn">Sign in</button>' +
        '<p class="login-status"></p>' +
        '<hr />';
      panel.querySelector('#staff-login-btn').onclick = signIn;
      dialog.prepend(panel);
    }

    async function signIn() {
      const username = document.getElementById('staff-username').value;
      const password = document.getElementById('staff-password').value;
      const button = document.getElementById('staff-login-btn');
      const status = document.querySelector('.staff-login .login-status');

      if (!username || !password) {
        status.className = 'login-status failed';
        status.textContent = 'Username and password are required.';
        return;
      }

      button.disabled = true;
      status.className = 'login-status';
      status.textContent = 'Signing in...';

      try {
        const response = await fetch(loginURL, {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ username, password }),
        });
        const payload = await response.json();

        if (response.ok && payload.data && payload.data.token) {
          window.ui.preauthorizeApiKey('BearerAuth', 'Bearer ' + payload.data.token);
          status.className = 'login-status ok';
          status.textContent = 'Signed in as ' + username + '. Requests are now authorized.';
          document.getElementById('staff-password').value = '';
        } else {
          status.className = 'login-status failed';
          status.textContent = payload.message || 'Login failed.';
        }
      } catch (err) {
        status.className = 'login-status failed';
        status.textContent = 'Login failed: ' + err.message;
      } finally {
        button.disabled = false;
      }
    }
  </script>
</body>
</html>`

func ServeCleanSwagger(config SwaggerConfig) gin.HandlerFunc {
	if config.Title == "" {
		config.Title = "API Documentation"
	}
	if config.SwaggerDocURL == "" {
		config.SwaggerDocURL = "/swagger/doc.json"
	}
	if config.AuthURL == "" {
		config.AuthURL = "/api/v1/auth/login"
	}

	tmpl := template.Must(template.New("swagger").Parse(swaggerPage))

	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(c.Writer, config); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render Swagger UI"})
		}
	}
}
