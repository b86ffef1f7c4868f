package sqlinline

const QInsertSourceImage = `--sql 6176aeb7-d818-4c20-98b2-62e20dfaa279
insert into source_images (id, user_id, image_url, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, '', now(), now())
returning id;
`

const QSelectSourceImageByID = `--sql adc698de-f768-46d9-9ddf-b14179e70d8c
select id, user_id, image_url, created_at, updated_at
from source_images
where id = $1::uuid
  and is_deleted = false
limit 1;
`

const QUpdateSourceImageURL = `--sql d620b511-7f15-4196-ad0d-aee234004a97
update source_images
set image_url = $2::text, updated_at = now()
where id = $1::uuid
  and is_deleted = false;
`

const QSoftDeleteSourceImage = `--sql 8c5652ea-1c11-448c-905c-ffa0c6de397e
update source_images
set is_deleted = true, updated_at = now()
where id = $1::uuid
  and is_deleted = false
returning image_url;
`
