package sqlinline

const QInsertUser = `--sql 012ac3d1-e3d6-4d13-bddd-ed03fb90e831
insert into users (id, nickname, created_at, updated_at)
values (gen_random_uuid(), $1::text, now(), now())
returning id, nickname, created_at;
`

const QSelectUserByID = `--sql 12217534-4200-4a50-a2cf-d6241f00cbb6
select id, nickname, created_at, updated_at
from users
where id = $1::uuid
  and is_deleted = false
limit 1;
`
