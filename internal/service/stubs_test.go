package service

import (
	"context"
	"sort"

	"minimercado/internal/model"
	"minimercado/internal/repository"

	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductoRepo is an in-memory ProductoRepository. Inactive products
// are invisible to FindByID, like the real one.
type stubProductoRepo struct {
	productos map[uint]*model.Producto
	nextID    uint
}

func newStubProductoRepo(ps ...model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[uint]*model.Producto)}
	for i := range ps {
		p := ps[i]
		p.Activo = true
		r.productos[p.ID] = &p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uint) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || !p.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByBarcode(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Activo && p.CodigoBarras != nil && *p.CodigoBarras == codigo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) ListBajoStock(ctx context.Context) ([]model.Producto, error) {
	all, _ := r.List(ctx)
	var out []model.Producto
	for _, p := range all {
		if p.AlertaStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uint) error {
	p, ok := r.productos[id]
	if !ok || !p.Activo {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) AjustarStock(_ context.Context, id uint, delta int) error {
	return r.AjustarStockTx(nil, id, delta)
}

func (r *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uint, cantidad int) (bool, error) {
	p, ok := r.productos[id]
	if !ok || !p.Activo || p.Stock < cantidad {
		return false, nil
	}
	p.Stock -= cantidad
	return true, nil
}

func (r *stubProductoRepo) AjustarStockTx(_ *gorm.DB, id uint, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

type stubProveedorRepo struct {
	proveedores map[uint]*model.Proveedor
}

func newStubProveedorRepo(ids ...uint) *stubProveedorRepo {
	r := &stubProveedorRepo{proveedores: make(map[uint]*model.Proveedor)}
	for _, id := range ids {
		r.proveedores[id] = &model.Proveedor{ID: id, Nombre: "Proveedor", Activo: true}
	}
	return r
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	p.ID = uint(len(r.proveedores) + 1)
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uint) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok || !p.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProveedorRepo) List(_ context.Context) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) SoftDelete(_ context.Context, id uint) error {
	p, ok := r.proveedores[id]
	if !ok || !p.Activo {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

type stubClienteRepo struct {
	clientes map[uint]*model.Cliente
}

func newStubClienteRepo(cs ...model.Cliente) *stubClienteRepo {
	r := &stubClienteRepo{clientes: make(map[uint]*model.Cliente)}
	for i := range cs {
		c := cs[i]
		c.Activo = true
		r.clientes[c.ID] = &c
	}
	return r
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	c.ID = uint(len(r.clientes) + 1)
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uint) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok || !c.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if c.Activo {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uint) error {
	c, ok := r.clientes[id]
	if !ok || !c.Activo {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

type stubUsuarioRepo struct {
	usuarios map[uint]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uint]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uint(len(r.usuarios) + 1)
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uint) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUsuarioRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.usuarios)), nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uint) error {
	u, ok := r.usuarios[id]
	if !ok || !u.Activo {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubCajaRepo struct {
	cajas  map[uint]*model.Caja
	nextID uint
	// antesDeBloquear runs when a sale transaction locks its caja.
	antesDeBloquear func()
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{cajas: make(map[uint]*model.Caja)}
}

func (r *stubCajaRepo) Create(_ context.Context, c *model.Caja) error {
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.cajas[c.ID] = &cp
	return nil
}

func (r *stubCajaRepo) FindAbierta(_ context.Context) (*model.Caja, error) {
	for _, c := range r.cajas {
		if c.Abierta() {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCajaRepo) FindAbiertaTx(_ *gorm.DB) (*model.Caja, error) {
	return r.FindAbierta(context.Background())
}

func (r *stubCajaRepo) BloquearAbiertaTx(_ *gorm.DB, id uint) error {
	if r.antesDeBloquear != nil {
		r.antesDeBloquear()
	}
	c, ok := r.cajas[id]
	if !ok || !c.Abierta() {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *stubCajaRepo) FindByID(_ context.Context, id uint) (*model.Caja, error) {
	c, ok := r.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCajaRepo) Cerrar(_ context.Context, c *model.Caja) error {
	return r.CerrarTx(nil, c)
}

func (r *stubCajaRepo) CerrarTx(_ *gorm.DB, c *model.Caja) error {
	stored, ok := r.cajas[c.ID]
	if !ok || !stored.Abierta() {
		return gorm.ErrRecordNotFound
	}
	stored.Estado = model.CajaCerrada
	stored.FechaCierre = c.FechaCierre
	stored.MontoFinal = c.MontoFinal
	c.Estado = model.CajaCerrada
	return nil
}

func (r *stubCajaRepo) List(_ context.Context, limit int) ([]model.Caja, error) {
	var out []model.Caja
	for _, c := range r.cajas {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubCajaRepo) DB() *gorm.DB { return nil }

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// stubReporteRepo aggregates the ventas held by a stubVentaRepo.
type stubReporteRepo struct {
	ventas *stubVentaRepo
}

func (r *stubReporteRepo) TotalesPorMetodo(_ context.Context, cajaID uint) ([]repository.TotalPorMetodo, error) {
	idx := map[string]int{}
	var out []repository.TotalPorMetodo
	for _, v := range r.ventas.ventas {
		if v.CajaID != cajaID || v.Estado != model.VentaCompletada {
			continue
		}
		i, ok := idx[v.MetodoPago]
		if !ok {
			i = len(out)
			idx[v.MetodoPago] = i
			out = append(out, repository.TotalPorMetodo{MetodoPago: v.MetodoPago})
		}
		out[i].Cantidad++
		out[i].Total = out[i].Total.Add(v.Total)
	}
	return out, nil
}

func (r *stubReporteRepo) TotalesPorMetodoTx(ctx context.Context, _ *gorm.DB, cajaID uint) ([]repository.TotalPorMetodo, error) {
	return r.TotalesPorMetodo(ctx, cajaID)
}

func (r *stubReporteRepo) ContarAnuladas(_ context.Context, cajaID uint) (int, error) {
	n := 0
	for _, v := range r.ventas.ventas {
		if v.CajaID == cajaID && v.Estado == model.VentaAnulada {
			n++
		}
	}
	return n, nil
}

var _ repository.ReporteRepository = (*stubReporteRepo)(nil)

type stubVentaRepo struct {
	ventas map[uint]*model.Venta
	nextID uint
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uint]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	r.nextID++
	v.ID = r.nextID
	for i := range v.Detalles {
		v.Detalles[i].VentaID = v.ID
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uint) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) List(_ context.Context, limit int) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uint, desde, hacia string) (bool, error) {
	v, ok := r.ventas[id]
	if !ok || v.Estado != desde {
		return false, nil
	}
	v.Estado = hacia
	return true, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// recordingTickets records enqueued ticket jobs.
type recordingTickets struct {
	ventas []uint
	emails []*string
}

func (t *recordingTickets) EnqueueTicket(_ context.Context, ventaID uint, email *string) error {
	t.ventas = append(t.ventas, ventaID)
	t.emails = append(t.emails, email)
	return nil
}
