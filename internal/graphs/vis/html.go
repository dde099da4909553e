package vis

import "html/template"

var page = template.Must(template.New("vis").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        * {
            margin: 0;
        }
        #{{.Container}} {
            width: 100vw;
            height: 100vh;
        }
        #loadfailed {
            position: absolute;
            top: 0;
            width: 100vw;
            padding: 1em;
            background: #f44336;
            color: white;
            font-family: sans-serif;
        }
    </style>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <script type="text/javascript"
      src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
  </head>
  <body>
    <div id="{{.Container}}"></div>
    <div id="loadfailed" style="display: {{if .Failed}}block{{else}}none{{end}}">load failed: <span id="loaderror">{{.Error}}</span></div>
    <script type="text/javascript">
var container = document.getElementById({{.Container}});

var data = {
  nodes: new vis.DataSet({{.Nodes}}),
  edges: new vis.DataSet({{.Edges}}),
};

var options = {
  physics: {
    enabled: false,
  },
  interaction: {
    selectable: false,
  },
  nodes: {
    shape: "dot",
    size: 15,
  },
};
var network = new vis.Network(container, data, options);
var socket = null;

function showLoadFailed(message) {
  document.getElementById("loaderror").textContent = message;
  document.getElementById("loadfailed").style.display = "block";
}

{{if .WebSocket}}
var scheme = location.protocol === "https:" ? "wss://" : "ws://";
socket = new WebSocket(scheme + location.host + {{.WebSocket}});
socket.onmessage = function (event) {
  var msg = JSON.parse(event.data);
  switch (msg.type) {
    case "node":
      var attrs = msg.data.attributes;
      data.nodes.add({
        id: msg.data.key, label: attrs.label, x: attrs.x, y: attrs.y,
        title: attrs.data, color: attrs.color ? {background: attrs.color} : undefined,
      });
      break;
    case "edge":
      var eattrs = msg.data.attributes;
      data.edges.add({
        id: msg.data.key, from: msg.data.source, to: msg.data.target, label: eattrs.label,
        arrows: "to", width: eattrs.size, color: eattrs.color ? {color: eattrs.color} : undefined,
        smooth: true,
      });
      break;
    case "ready":
      network.fit();
      break;
    case "loaderror":
      showLoadFailed(msg.data.error);
      break;
  }
};
{{end}}

network.on("click", function (params) {
  if (params.nodes.length === 0) {
    return;
  }
  var id = params.nodes[0];
  console.log(data.nodes.get(id));
  if (socket !== null && socket.readyState === WebSocket.OPEN) {
    socket.send(JSON.stringify({type: "click", id: String(id)}));
  }
});
    </script>
  </body>
</html>
`))
