package render

import (
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/msalah0e/scentnet/internal/network"
)

// HTML writes a self-contained page with a force-directed layout of the
// view. With Live set the page posts clicks to /api/select and hovers to
// /api/hover and redraws from the view the server answers with.
type HTML struct {
	W    io.Writer
	Live bool
	Options
}

// Render implements Renderer.
func (h *HTML) Render(v *network.View) error {
	viewJSON, err := json.Marshal(v)
	if err != nil {
		return err
	}
	colorsJSON, err := json.Marshal(h.colors(v))
	if err != nil {
		return err
	}
	title := h.Title
	if title == "" {
		title = "scentnet"
	}
	titleJSON, _ := json.Marshal(title)

	r := strings.NewReplacer(
		"__TITLE_HTML__", html.EscapeString(title),
		"__TITLE__", string(titleJSON),
		"__LIVE__", strconv.FormatBool(h.Live),
		"__VIEW__", string(viewJSON),
		"__COLORS__", string(colorsJSON),
	)
	_, err = r.WriteString(h.W, page)
	return err
}

// colors maps every accord the view mentions to its color.
func (h *HTML) colors(v *network.View) map[string]string {
	out := make(map[string]string)
	for _, n := range v.Nodes {
		key := n.PrimaryAccord
		if n.Kind == network.KindAccord {
			key = n.Key
		}
		if key != "" {
			out[key] = colorOf(h.Labels, key)
		}
	}
	return out
}

const page = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>__TITLE_HTML__</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{background:#0f0b14;color:#e8e0ea;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif;overflow:hidden}
canvas{display:block}
#info{position:fixed;top:16px;left:16px;z-index:10;background:rgba(15,11,20,0.9);border:1px solid rgba(229,143,176,0.3);border-radius:12px;padding:16px 20px;backdrop-filter:blur(10px);font-size:13px;min-width:220px}
#info h2{color:#E58FB0;font-size:16px;margin-bottom:8px}
.stat{color:#888;margin:2px 0}
.stat b{color:#ccc}
#message{color:#F2C12E;margin-top:8px;max-width:260px}
#tooltip{position:fixed;z-index:20;pointer-events:none;display:none;background:rgba(15,11,20,0.95);border:1px solid rgba(229,143,176,0.5);border-radius:10px;padding:12px 16px;backdrop-filter:blur(10px);font-size:12px;max-width:300px}
.tt-name{color:#E58FB0;font-weight:700;font-size:14px}
.tt-type{color:#888;font-style:italic;margin-bottom:4px}
#legend{position:fixed;bottom:16px;left:16px;z-index:10;background:rgba(15,11,20,0.9);border:1px solid rgba(255,255,255,0.06);border-radius:10px;padding:12px 16px;font-size:11px;color:#777}
.leg-row{margin:3px 0;display:flex;align-items:center;gap:8px}
.dot{width:10px;height:10px;border-radius:50%;display:inline-block}
</style>
</head>
<body>
<div id="info">
  <h2 id="title"></h2>
  <div class="stat"><b id="n-visible">0</b> of <b id="n-filtered">0</b> perfumes</div>
  <div class="stat"><b id="n-accords">0</b> accords</div>
  <div class="stat" id="selected"></div>
  <div id="message"></div>
  <div class="stat" id="hint" style="margin-top:8px;color:#555;font-size:11px;"></div>
</div>
<div id="tooltip"></div>
<div id="legend"></div>
<canvas id="canvas"></canvas>
<script>
"use strict";
const LIVE=__LIVE__;
const COLORS=__COLORS__;
let VIEW=__VIEW__;

document.getElementById('title').textContent=__TITLE__;
document.getElementById('hint').textContent=LIVE?'click to select / esc to clear / drag / scroll to zoom':'drag nodes / scroll to zoom';

const canvas=document.getElementById('canvas');
const ctx=canvas.getContext('2d');
let W,H;
function resize(){W=canvas.width=window.innerWidth;H=canvas.height=window.innerHeight}
resize();
window.addEventListener('resize',resize);

const sim={nodes:[],edges:[],byId:{}};
let camera={x:0,y:0,zoom:1},drag=null,hovered=null,moved=false;

function colorOf(n){
  const key=n.kind==='accord'?n.key:n.primaryAccord;
  return COLORS[key]||'#2DB682';
}

function radius(n){
  if(n.kind==='accord')return n.emphasis==='neighbor'?7:5;
  switch(n.emphasis){
    case 'selected':return 13;
    case 'neighbor':case 'hovered':return 10;
    default:return 7;
  }
}

function alpha(n){
  if(n.emphasis==='dimmed')return 0.15;
  if(n.emphasis==='normal')return 0.8;
  return 1;
}

function apply(view){
  VIEW=view;
  const prev=sim.byId;
  sim.byId={};
  sim.nodes=(view.nodes||[]).map(n=>{
    const p=prev[n.id];
    const node={...n,
      x:p?p.x:W/2+(Math.random()-0.5)*300,y:p?p.y:H/2+(Math.random()-0.5)*300,
      vx:p?p.vx:0,vy:p?p.vy:0};
    sim.byId[n.id]=node;
    return node;
  });
  sim.edges=(view.edges||[]).map(e=>({...e,a:sim.byId[e.from],b:sim.byId[e.to]})).filter(e=>e.a&&e.b);
  hovered=hovered&&sim.byId[hovered.id]||null;

  const st=view.stats||{};
  document.getElementById('n-visible').textContent=st.visible||0;
  document.getElementById('n-filtered').textContent=st.filtered||0;
  document.getElementById('n-accords').textContent=st.accords||0;
  const sel=view.selectedId&&sim.byId[view.selectedId];
  document.getElementById('selected').textContent=sel?'selected: '+sel.label:'';
  document.getElementById('message').textContent=view.status==='ready'?'':(view.message||view.status);

  const legend=document.getElementById('legend');
  legend.textContent='';
  Object.keys(COLORS).sort().forEach(k=>{
    const row=document.createElement('div');row.className='leg-row';
    const dot=document.createElement('span');dot.className='dot';dot.style.background=COLORS[k];
    row.appendChild(dot);row.appendChild(document.createTextNode(' '+k));
    legend.appendChild(row);
  });
}

function post(path,body){
  if(!LIVE)return;
  fetch(path,{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify(body)})
    .then(r=>r.ok?r.json():null).then(v=>{if(v&&v.nodes!==undefined)apply(v)}).catch(()=>{});
}

function tick(){
  const nodes=sim.nodes,edges=sim.edges;
  const k=0.005,repulse=2000,damp=0.85,center=0.001;
  for(const n of nodes){n.vx+=(W/2-n.x)*center;n.vy+=(H/2-n.y)*center}
  for(let i=0;i<nodes.length;i++){
    for(let j=i+1;j<nodes.length;j++){
      let dx=nodes[j].x-nodes[i].x,dy=nodes[j].y-nodes[i].y;
      let d2=dx*dx+dy*dy;if(d2<1)d2=1;
      let f=repulse/d2,fx=dx*f,fy=dy*f;
      nodes[i].vx-=fx;nodes[i].vy-=fy;nodes[j].vx+=fx;nodes[j].vy+=fy;
    }
  }
  for(const e of edges){
    const springLen=e.kind==='SIMILAR_TO'?80+(1-e.weight)*160:100;
    let dx=e.b.x-e.a.x,dy=e.b.y-e.a.y,d=Math.sqrt(dx*dx+dy*dy)||1;
    let f=(d-springLen)*k,fx=(dx/d)*f,fy=(dy/d)*f;
    e.a.vx+=fx;e.a.vy+=fy;e.b.vx-=fx;e.b.vy-=fy;
  }
  for(const n of nodes){
    if(n===drag)continue;
    n.vx*=damp;n.vy*=damp;n.x+=n.vx;n.y+=n.vy;
  }
}

function toScreen(x,y){return[(x-camera.x)*camera.zoom+W/2,(y-camera.y)*camera.zoom+H/2]}
function toWorld(sx,sy){return[(sx-W/2)/camera.zoom+camera.x,(sy-H/2)/camera.zoom+camera.y]}

function draw(){
  ctx.clearRect(0,0,W,H);
  for(const e of sim.edges){
    if(!e.drawn)continue;
    const[ax,ay]=toScreen(e.a.x,e.a.y),[bx,by]=toScreen(e.b.x,e.b.y);
    ctx.globalAlpha=0.35;
    ctx.beginPath();ctx.moveTo(ax,ay);ctx.lineTo(bx,by);
    ctx.strokeStyle=colorOf(e.b);ctx.lineWidth=0.5+e.weight*1.5;ctx.stroke();
  }
  const anySelected=!!VIEW.selectedId;
  for(const n of sim.nodes){
    const[sx,sy]=toScreen(n.x,n.y);
    const r=radius(n)*camera.zoom;
    const col=colorOf(n);
    const isHl=n.emphasis==='selected'||n.emphasis==='neighbor'||n.emphasis==='hovered'||n===hovered;
    ctx.globalAlpha=alpha(n);
    if(isHl){
      ctx.beginPath();ctx.arc(sx,sy,r+6,0,Math.PI*2);
      const grad=ctx.createRadialGradient(sx,sy,r,sx,sy,r+6);
      grad.addColorStop(0,col+'66');grad.addColorStop(1,'transparent');
      ctx.fillStyle=grad;ctx.fill();
    }
    ctx.beginPath();
    if(n.kind==='accord'){
      ctx.moveTo(sx,sy-r);ctx.lineTo(sx+r,sy);ctx.lineTo(sx,sy+r);ctx.lineTo(sx-r,sy);ctx.closePath();
    }else{
      ctx.arc(sx,sy,r,0,Math.PI*2);
    }
    ctx.fillStyle=col;ctx.fill();
    if(n.emphasis==='selected'){ctx.strokeStyle='#fff';ctx.lineWidth=2;ctx.stroke()}
    const showLabel=isHl||(!anySelected&&(camera.zoom>1.2||n.kind==='accord'));
    if(showLabel){
      ctx.font=(isHl?'bold ':'')+Math.max(11,12*camera.zoom)+'px -apple-system,sans-serif';
      ctx.fillStyle=isHl?'#fff':'#bbb';ctx.textAlign='center';
      ctx.fillText(n.label,sx,sy+r+14*camera.zoom);
    }
  }
  ctx.globalAlpha=1;
}

function findNode(sx,sy){
  const[wx,wy]=toWorld(sx,sy);
  for(let i=sim.nodes.length-1;i>=0;i--){
    const n=sim.nodes[i];
    const r=radius(n);
    const dx=n.x-wx,dy=n.y-wy;
    if(dx*dx+dy*dy<(r+4)*(r+4))return n;
  }
  return null;
}

canvas.addEventListener('mousedown',e=>{
  moved=false;
  const n=findNode(e.clientX,e.clientY);
  if(n){drag=n;drag.vx=0;drag.vy=0}
  else{drag={pan:true,sx:e.clientX,sy:e.clientY,cx:camera.x,cy:camera.y}}
});
canvas.addEventListener('mousemove',e=>{
  if(drag){moved=true}
  if(drag&&drag.pan){
    camera.x=drag.cx-(e.clientX-drag.sx)/camera.zoom;
    camera.y=drag.cy-(e.clientY-drag.sy)/camera.zoom;
  }else if(drag){
    const[wx,wy]=toWorld(e.clientX,e.clientY);drag.x=wx;drag.y=wy;
  }
  const n=findNode(e.clientX,e.clientY);
  if(n!==hovered){
    hovered=n;
    post('/api/hover',{id:n?n.id:''});
  }
  const tt=document.getElementById('tooltip');
  if(n){
    canvas.style.cursor='pointer';
    tt.textContent='';
    const nameEl=document.createElement('div');nameEl.className='tt-name';nameEl.textContent=n.label;tt.appendChild(nameEl);
    const typeEl=document.createElement('div');typeEl.className='tt-type';
    typeEl.textContent=n.kind==='accord'?'accord':[n.brand,n.primaryAccord,n.registerStatus].filter(Boolean).join(' · ');
    tt.appendChild(typeEl);
    tt.style.display='block';tt.style.left=(e.clientX+16)+'px';tt.style.top=(e.clientY+16)+'px';
  }else{
    canvas.style.cursor=drag?'grabbing':'default';tt.style.display='none';
  }
});
canvas.addEventListener('mouseup',e=>{
  const n=findNode(e.clientX,e.clientY);
  if(!moved&&n&&n.kind==='perfume')post('/api/select',{id:n.id});
  drag=null;
});
canvas.addEventListener('wheel',e=>{
  e.preventDefault();
  const factor=e.deltaY>0?0.9:1.1;
  camera.zoom=Math.max(0.1,Math.min(5,camera.zoom*factor));
},{passive:false});
window.addEventListener('keydown',e=>{if(e.key==='Escape')post('/api/select',{id:''})});

if(LIVE){
  setInterval(()=>{fetch('/api/view').then(r=>r.ok?r.json():null).then(v=>{if(v&&v.nodes!==undefined)apply(v)}).catch(()=>{})},5000);
}

apply(VIEW);
(function loop(){tick();draw();requestAnimationFrame(loop)})();
</script>
</body>
</html>
`
