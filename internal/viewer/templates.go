package viewer

// pageTemplate is the Go html/template for the diagram viewer page. The
// embedded script implements the pointer-event contract: hovering or
// clicking an element that carries a data-overlay attribute activates that
// overlay, and a click anywhere else deactivates. Events go to the server
// over the websocket; the server applies them through the diagram's
// dispatcher and pushes back the resulting state, which every open viewer
// of the same diagram applies locally.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Name}} - exonview</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 960px; }
    .description { color: #333; margin-bottom: 1.5rem; }
    .diagram { border: 1px solid #ddd; overflow: auto; }
    [data-overlay] { cursor: pointer; }
  </style>
</head>
<body>
  <h1>{{.Name}}</h1>
  {{if .Description}}<div class="description">{{.Description}}</div>{{end}}
  <div class="diagram" id="diagram">
    {{.SVG}}
  </div>
  <script>
    (function () {
      var proto = location.protocol === "https:" ? "wss:" : "ws:";
      var ws = new WebSocket(proto + "//" + location.host + "/ws/diagrams/{{.DiagramID}}");
      var shown = null;

      function send(msg) {
        if (ws.readyState === WebSocket.OPEN) {
          ws.send(JSON.stringify(msg));
        }
      }

      ws.onmessage = function (ev) {
        var msg = JSON.parse(ev.data);
        if (msg.type !== "state") return;
        if (shown && shown !== msg.active) {
          var prev = document.getElementById(shown);
          if (prev) prev.setAttribute("visibility", "hidden");
        }
        if (msg.visible && msg.active !== "none") {
          var el = document.getElementById(msg.active);
          if (el) el.setAttribute("visibility", "visible");
          shown = msg.active;
        } else if (shown) {
          var cur = document.getElementById(shown);
          if (cur) cur.setAttribute("visibility", "hidden");
        }
      };

      document.getElementById("diagram").addEventListener("click", function (ev) {
        var target = ev.target.closest("[data-overlay]");
        if (target) {
          send({ type: "activate", target: target.getAttribute("data-overlay") });
          ev.stopPropagation();
        }
      });

      document.addEventListener("click", function (ev) {
        if (!ev.target.closest("[data-overlay]")) {
          send({ type: "deactivate" });
        }
      });

      document.getElementById("diagram").addEventListener("mouseover", function (ev) {
        var target = ev.target.closest("[data-overlay]");
        if (target) {
          send({ type: "activate", target: target.getAttribute("data-overlay") });
        }
      });
    })();
  </script>
</body>
</html>`
